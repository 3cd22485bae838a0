// Package main starts the indexer process lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	indexercmd "github.com/louisbranch/cleanmate.space/internal/cmd/indexer"
)

func main() {
	cfg, err := indexercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[INDEXER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := indexercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to index: %v", err)
	}
}
