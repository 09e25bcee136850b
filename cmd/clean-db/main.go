// clean-db prunes stale rows from the odds PostgreSQL database to free
// space. Snapshots older than the cutoff are deleted; the append-only
// history table is kept.
//
//	go run ./cmd/clean-db -config configs/production.yaml -older-than 168h
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	pkgconfig "github.com/mazyy/RobbinOdds/internal/pkg/config"
	"github.com/mazyy/RobbinOdds/internal/pkg/storage"
)

func main() {
	configPath := flag.String("config", "configs/production.yaml", "Path to config file")
	olderThan := flag.Duration("older-than", 7*24*time.Hour, "Delete snapshots older than this")
	flag.Parse()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		cfg, err := pkgconfig.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		dsn = cfg.Storage.Postgres.DSN
	}
	if dsn == "" {
		log.Fatal("No DSN: set POSTGRES_DSN or storage.postgres.dsn in config")
	}

	store, err := storage.NewPostgresOddsStorage(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-*olderThan)
	if err := store.CleanFinishedMatches(ctx, cutoff); err != nil {
		log.Fatalf("Failed to clean snapshots: %v", err)
	}

	log.Printf("Done. Snapshots older than %v cleared.", cutoff.UTC().Format(time.RFC3339))
}
