package migrations

import "embed"

// FS contains embedded Postgres migrations for the indexer entity store.
//
//go:embed *.sql
var FS embed.FS
