package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
)

func registrationLine(block int) string {
	return fmt.Sprintf(`{"type":"user.registered","tx_hash":"0x%064x","tx_index":0,"log_index":0,"block_number":%d,"block_timestamp":%d,"payload":{"user":"0x%040x","metadata":"{}"}}`,
		block, block, block*10, block)
}

func writeEvents(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write events: %v", err)
	}
	return path
}

func TestOpenStoreBackends(t *testing.T) {
	store, err := openStore(context.Background(), RuntimeConfig{Store: StoreMemory})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("store = %T, want *memory.Store", store)
	}

	path := filepath.Join(t.TempDir(), "nested", "indexer.db")
	store, err = openStore(context.Background(), RuntimeConfig{DBPath: path})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}

	if _, err := openStore(context.Background(), RuntimeConfig{Store: "mongo"}); err == nil {
		t.Fatal("expected error for unknown store")
	}
	if _, err := openStore(context.Background(), RuntimeConfig{Store: StorePostgres}); err == nil {
		t.Fatal("expected error for missing postgres dsn")
	}
}

func TestNewRuntimeRejectsBadConfig(t *testing.T) {
	events := writeEvents(t, registrationLine(1))
	tests := []struct {
		name string
		cfg  RuntimeConfig
	}{
		{name: "team removal", cfg: RuntimeConfig{Store: StoreMemory, EventsPath: events, TeamRemoval: "archive"}},
		{name: "log level", cfg: RuntimeConfig{Store: StoreMemory, EventsPath: events, LogLevel: "loud"}},
		{name: "events path", cfg: RuntimeConfig{Store: StoreMemory}},
		{name: "networks", cfg: RuntimeConfig{Store: StoreMemory, EventsPath: events, NetworksPath: filepath.Join(t.TempDir(), "missing.json"), Network: "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := newRuntime(context.Background(), tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRuntimeIngestsAndResumes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "indexer.db")
	cfg := RuntimeConfig{
		DBPath:     dbPath,
		EventsPath: writeEvents(t, registrationLine(1), registrationLine(2)),
	}

	rt, err := newRuntime(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	summary, err := rt.runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Applied != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	firstRun := rt.runID
	rt.close()

	cfg.EventsPath = writeEvents(t, registrationLine(1), registrationLine(2), registrationLine(3))
	rt, err = newRuntime(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen runtime: %v", err)
	}
	defer rt.close()
	if rt.runID == firstRun {
		t.Fatalf("run id reused: %s", rt.runID)
	}
	summary, err = rt.runner.Run(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if summary.Applied != 1 || summary.Resumed != 2 || summary.Last.Block != 3 {
		t.Fatalf("resume summary = %+v", summary)
	}
	page, err := rt.store.List(context.Background(), storage.KindUser, "", storage.MaxPageSize)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(page.Documents) != 3 {
		t.Fatalf("users = %d, want 3", len(page.Documents))
	}
}

func TestServeMetrics(t *testing.T) {
	stop, err := serveMetrics("", prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("disabled metrics: %v", err)
	}
	stop()

	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("probe listener: %v", err)
	}
	addr := probe.Addr().String()
	_ = probe.Close()

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"})
	registry.MustRegister(counter)
	counter.Inc()

	stop, err = serveMetrics(addr, registry)
	if err != nil {
		t.Fatalf("serve metrics: %v", err)
	}
	defer stop()

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(body), "probe_total 1") {
		t.Fatalf("metrics body missing counter:\n%s", body)
	}
}
