// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// backfill parses a directory of archived roster PDFs into the database.
// Editions are processed oldest-first by filename so later editions win
// any upsert conflicts.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roster-watch/internal/config"
	"github.com/roster-watch/internal/database"
	"github.com/roster-watch/internal/fetcher"
	"github.com/roster-watch/internal/jobs"
	"github.com/roster-watch/internal/roster"
	"github.com/roster-watch/internal/watcher"
)

var (
	configPath = flag.String("config", "", "Path to config file (default: ~/.roster-watch/config.yaml)")
	dir        = flag.String("dir", "", "Directory of archived roster PDFs (required)")
	force      = flag.Bool("force", false, "Re-parse editions already in the document log")
	policy     = flag.String("degraded-policy", "", "Override degraded policy (store|discard)")
)

func main() {
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: backfill -dir <directory of roster PDFs>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	degradedPolicy := cfg.Parser.DegradedPolicy
	if *policy != "" {
		degradedPolicy = *policy
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}
	defer db.Close()

	store, err := database.NewRosterStore(db)
	if err != nil {
		log.Fatalf("failed to initialize roster store: %v", err)
	}
	docLog, err := database.NewDocumentLog(db)
	if err != nil {
		log.Fatalf("failed to initialize document log: %v", err)
	}

	runner := &jobs.Runner{
		Fetcher: fetcher.New(),
		Store:   store,
		Log:     docLog,
		Engine: roster.NewEngine(roster.Options{
			MinCommittees:        cfg.Parser.MinCommittees,
			RequireSubcommittees: cfg.Parser.RequireSubcommittees,
		}),
		DegradedPolicy: degradedPolicy,
	}

	paths, err := collectPDFs(*dir)
	if err != nil {
		log.Fatalf("failed to scan %s: %v", *dir, err)
	}
	if len(paths) == 0 {
		log.Fatalf("no roster PDFs found in %s", *dir)
	}
	log.Printf("Backfilling %d editions from %s", len(paths), *dir)

	ctx := context.Background()
	failures := 0
	for _, path := range paths {
		if err := runner.Run(ctx, jobs.ParseRosterPayload{LocalPath: path, Force: *force}); err != nil {
			log.Printf("Failed to process %s: %v", path, err)
			failures++
		}
	}

	log.Printf("Backfill complete: %d processed, %d failed", len(paths)-failures, failures)
	if failures > 0 {
		os.Exit(1)
	}
}

// collectPDFs returns roster candidates sorted by filename. Archive
// naming embeds the edition date, so lexical order is chronological.
func collectPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if watcher.IsRosterCandidate(path) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
