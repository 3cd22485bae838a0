package logging

import "testing"

func TestNewDefaults(t *testing.T) {
	logger, err := New(Config{Service: "indexer"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(0) {
		t.Fatal("expected info level to be enabled by default")
	}
	if logger.Core().Enabled(-1) {
		t.Fatal("expected debug level to be disabled by default")
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	if _, err := New(Config{Level: "chatty"}); err == nil {
		t.Fatal("expected invalid level error")
	}
	if _, err := New(Config{Encoding: "xml"}); err == nil {
		t.Fatal("expected invalid encoding error")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected no-op logger")
	}
}
