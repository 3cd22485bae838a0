// Package postgres opens the indexer entity store on a shared Postgres database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/louisbranch/cleanmate.space/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/postgres/migrations"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/sqlstore"
)

const (
	maxOpenConns    = 8
	connMaxLifetime = 30 * time.Minute
)

// Open connects with the pgx driver and applies migrations.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres store: %w", err)
	}
	if err := sqlmigrate.ApplyMigrations(ctx, sqlDB, sqlmigrate.Postgres, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlstore.New(sqlDB, sqlmigrate.Postgres), nil
}
