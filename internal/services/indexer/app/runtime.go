// Package app wires the indexer runtime: entity store, projection engine,
// ingestion loop, health and metrics endpoints.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/cleanmate.space/internal/platform/config"
	"github.com/louisbranch/cleanmate.space/internal/platform/id"
	"github.com/louisbranch/cleanmate.space/internal/platform/logging"
	"github.com/louisbranch/cleanmate.space/internal/platform/timeouts"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/ingest"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/metrics"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/projection"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/memory"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/postgres"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

const (
	defaultIndexerPort = 8091
	defaultIndexerDB   = "data/indexer.db"
	healthService      = "indexer.ingest"
)

// RuntimeConfig controls indexer startup and ingestion.
type RuntimeConfig struct {
	Port             int
	MetricsAddr      string
	Store            string
	DBPath           string
	PostgresDSN      string
	EventsPath       string
	NetworksPath     string
	Network          string
	TeamRemoval      string
	IgnoreCheckpoint bool
	LogLevel         string
	LogEncoding      string
}

// runtime holds the wired components of one run.
type runtime struct {
	store    storage.Store
	engine   *projection.Engine
	runner   *ingest.Runner
	registry *prometheus.Registry
	logger   *zap.Logger
	runID    string
	closers  []func() error
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			log.Printf("close indexer resource: %v", err)
		}
	}
}

// Run ingests the configured events and serves health and metrics until the
// input is exhausted, an event fails, or ctx is cancelled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultIndexerPort
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on indexer port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	stopMetrics, err := serveMetrics(cfg.MetricsAddr, rt.registry)
	if err != nil {
		return err
	}
	defer stopMetrics()

	log.Printf("indexer health server listening at %v", listener.Addr())
	log.Printf("indexer run %s started", rt.runID)
	summary, err := rt.runner.Run(ctx)
	if err != nil {
		healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		return fmt.Errorf("indexer run %s: %w", rt.runID, err)
	}
	log.Printf("indexer run %s finished: applied %d, resumed past %d, before start %d, last %s",
		rt.runID, summary.Applied, summary.Resumed, summary.BeforeStart, summary.Last)
	return nil
}

// newRuntime opens the store and input and wires the engine and runner.
func newRuntime(ctx context.Context, cfg RuntimeConfig) (rt *runtime, err error) {
	teamRemoval, err := projection.ParseTeamRemoval(cfg.TeamRemoval)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, Service: "indexer"})
	if err != nil {
		return nil, err
	}

	rt = &runtime{logger: logger, runID: id.NewRunID(), registry: prometheus.NewRegistry()}
	rt.closers = append(rt.closers, func() error {
		// Sync fails on stdout when it is not a regular file.
		_ = logger.Sync()
		return nil
	})
	defer func() {
		if err != nil {
			rt.close()
			rt = nil
		}
	}()

	var network *ingest.Network
	if strings.TrimSpace(cfg.NetworksPath) != "" {
		loaded, err := ingest.LoadNetwork(cfg.NetworksPath, cfg.Network)
		if err != nil {
			return rt, err
		}
		network = &loaded
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return rt, err
	}
	rt.store = store
	rt.closers = append(rt.closers, store.Close)

	rt.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.New(rt.registry)
	if err != nil {
		return rt, fmt.Errorf("register metrics: %w", err)
	}

	rt.engine, err = projection.NewEngine(store, projection.EngineConfig{
		RunID:       rt.runID,
		TeamRemoval: teamRemoval,
		Logger:      logger,
		Observer:    observer,
	})
	if err != nil {
		return rt, err
	}

	source, closeSource, err := ingest.OpenJSONL(cfg.EventsPath)
	if err != nil {
		return rt, err
	}
	rt.closers = append(rt.closers, closeSource)

	rt.runner, err = ingest.NewRunner(source, rt.engine, ingest.Config{
		RunID:            rt.runID,
		IgnoreCheckpoint: cfg.IgnoreCheckpoint,
		Network:          network,
		Logger:           logger,
	})
	if err != nil {
		return rt, err
	}
	return rt, nil
}

// openStore opens the configured entity store backend.
func openStore(ctx context.Context, cfg RuntimeConfig) (storage.Store, error) {
	kind, err := config.OneOf("store", cfg.Store, StoreSQLite, StoreSQLite, StorePostgres, StoreMemory)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreOpen)
	defer cancel()

	switch kind {
	case StoreMemory:
		return memory.New(), nil
	case StorePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open indexer postgres store: %w", err)
		}
		return store, nil
	default:
		path := cfg.DBPath
		if strings.TrimSpace(path) == "" {
			path = defaultIndexerDB
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create indexer storage dir: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open indexer sqlite store: %w", err)
		}
		return store, nil
	}
}

// serveMetrics starts the metrics endpoint. An empty addr disables it.
func serveMetrics(addr string, registry *prometheus.Registry) (stop func(), err error) {
	if strings.TrimSpace(addr) == "" {
		return func() {}, nil
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on metrics addr %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: timeouts.ReadHeader}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server: %v", err)
		}
	}()
	log.Printf("indexer metrics listening at %v", listener.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("metrics shutdown: %v", err)
		}
		<-done
	}, nil
}
