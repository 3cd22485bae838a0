// Package timeouts defines shared timeout constants used by indexer processes.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// StoreOpen caps connecting to and migrating the entity store.
const StoreOpen = 30 * time.Second
