// Package indexer parses indexer command flags and launches the ingestion runtime.
package indexer

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/cleanmate.space/internal/platform/cmd"
	indexerapp "github.com/louisbranch/cleanmate.space/internal/services/indexer/app"
)

// Config holds indexer command configuration.
type Config struct {
	Port             int    `env:"CLEANMATE_INDEXER_PORT" envDefault:"8091"`
	MetricsAddr      string `env:"CLEANMATE_INDEXER_METRICS_ADDR" envDefault:":9091"`
	Store            string `env:"CLEANMATE_INDEXER_STORE" envDefault:"sqlite"`
	DBPath           string `env:"CLEANMATE_INDEXER_DB_PATH" envDefault:"data/indexer.db"`
	PostgresDSN      string `env:"CLEANMATE_INDEXER_POSTGRES_DSN"`
	EventsPath       string `env:"CLEANMATE_INDEXER_EVENTS_PATH"`
	NetworksPath     string `env:"CLEANMATE_INDEXER_NETWORKS_PATH"`
	Network          string `env:"CLEANMATE_INDEXER_NETWORK"`
	TeamRemoval      string `env:"CLEANMATE_INDEXER_TEAM_REMOVAL" envDefault:"soft"`
	IgnoreCheckpoint bool   `env:"CLEANMATE_INDEXER_IGNORE_CHECKPOINT"`
	LogLevel         string `env:"CLEANMATE_INDEXER_LOG_LEVEL" envDefault:"info"`
	LogEncoding      string `env:"CLEANMATE_INDEXER_LOG_ENCODING" envDefault:"json"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The indexer health gRPC server port")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (empty disables)")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Entity store backend: sqlite, postgres or memory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The indexer SQLite database path")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "The indexer Postgres connection string")
	fs.StringVar(&cfg.EventsPath, "events", cfg.EventsPath, "Decoded event log in JSON lines (- reads stdin)")
	fs.StringVar(&cfg.NetworksPath, "networks", cfg.NetworksPath, "networks.json with contract addresses and start blocks")
	fs.StringVar(&cfg.Network, "network", cfg.Network, "Network name selected from networks.json")
	fs.StringVar(&cfg.TeamRemoval, "team-removal", cfg.TeamRemoval, "Team member removal mode: soft or hard")
	fs.BoolVar(&cfg.IgnoreCheckpoint, "ignore-checkpoint", cfg.IgnoreCheckpoint, "Replay every event regardless of the stored checkpoint")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogEncoding, "log-encoding", cfg.LogEncoding, "Log encoding: json or console")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the indexer runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceIndexer, func(ctx context.Context) error {
		return indexerapp.Run(ctx, indexerapp.RuntimeConfig{
			Port:             cfg.Port,
			MetricsAddr:      cfg.MetricsAddr,
			Store:            cfg.Store,
			DBPath:           cfg.DBPath,
			PostgresDSN:      cfg.PostgresDSN,
			EventsPath:       cfg.EventsPath,
			NetworksPath:     cfg.NetworksPath,
			Network:          cfg.Network,
			TeamRemoval:      cfg.TeamRemoval,
			IgnoreCheckpoint: cfg.IgnoreCheckpoint,
			LogLevel:         cfg.LogLevel,
			LogEncoding:      cfg.LogEncoding,
		})
	})
}
