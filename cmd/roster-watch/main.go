// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roster-watch/internal/config"
	"github.com/roster-watch/internal/database"
	"github.com/roster-watch/internal/fetcher"
	"github.com/roster-watch/internal/jobs"
	"github.com/roster-watch/internal/logger"
	"github.com/roster-watch/internal/notify"
	"github.com/roster-watch/internal/queue"
	"github.com/roster-watch/internal/roster"
	"github.com/roster-watch/internal/server"
	"github.com/roster-watch/internal/watcher"
	"github.com/roster-watch/internal/worker"
)

var (
	configPath = flag.String("config", "", "Path to config file (default: ~/.roster-watch/config.yaml)")
	oneShot    = flag.Bool("once", false, "Fetch and parse the roster once, then exit")
)

func main() {
	flag.Parse()

	// .env is optional; real deployments use ROSTER_* environment variables
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if _, err := logger.Init(cfg.LogFile); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
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

	ctx := context.Background()

	// Redis is optional: without it the queue and notice replay are
	// in-process only.
	redisClient, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Printf("warning: failed to connect to Redis: %v, using in-process queue", err)
		redisClient = nil
	}

	var jobQueue queue.Queue
	if redisClient != nil {
		jobQueue, err = queue.NewRedisQueue(redisClient, queue.DefaultKey)
		if err != nil {
			log.Fatalf("failed to create job queue: %v", err)
		}
	} else {
		jobQueue = queue.NewMemoryQueue(64)
	}

	hub := notify.NewHub(redisClient)
	defer hub.Stop()

	engine := roster.NewEngine(roster.Options{
		MinCommittees:        cfg.Parser.MinCommittees,
		RequireSubcommittees: cfg.Parser.RequireSubcommittees,
	})
	runner := &jobs.Runner{
		Fetcher:        fetcher.New(),
		Store:          store,
		Log:            docLog,
		Hub:            hub,
		Desktop:        notify.NewDesktop(cfg.Notify.DesktopAlerts),
		Engine:         engine,
		DegradedPolicy: cfg.Parser.DegradedPolicy,
	}

	if *oneShot {
		if err := runner.Run(ctx, jobs.ParseRosterPayload{URL: cfg.RosterURL, Force: true}); err != nil {
			log.Fatalf("parse failed: %v", err)
		}
		return
	}

	workerCtx, workerCancel := context.WithCancel(ctx)
	go func() {
		log.Printf("Starting %d background workers", cfg.WorkerCount)
		if err := worker.StartWorkers(workerCtx, jobQueue, runner.Handle, cfg.WorkerCount); err != nil {
			log.Printf("worker error: %v", err)
		}
	}()

	if cfg.WatchDir != "" {
		watchMgr, err := watcher.NewManager(cfg.WatchDir, jobQueue)
		if err != nil {
			log.Fatalf("failed to start watcher: %v", err)
		}
		watchMgr.Start()
		defer watchMgr.Stop()
	}

	pollCancel := startPoller(ctx, cfg, runner.Fetcher, jobQueue)
	defer pollCancel()

	srv := &server.Server{
		Store:     store,
		Log:       docLog,
		Hub:       hub,
		Queue:     jobQueue,
		RosterURL: cfg.RosterURL,
	}
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: srv.Routes(),
	}

	go func() {
		log.Printf("HTTP server listening on %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	waitForShutdown(httpServer, workerCancel)
}

// startPoller checks the clerk's site on an interval. It enqueues a parse
// of whatever roster URL the index page currently links to; change
// detection downstream keeps unchanged editions cheap.
func startPoller(ctx context.Context, cfg *config.Config, f *fetcher.Fetcher, q queue.Queue) context.CancelFunc {
	pollCtx, cancel := context.WithCancel(ctx)
	interval := time.Duration(cfg.PollHours) * time.Hour

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// One poll at startup so a fresh install has data immediately.
		poll(pollCtx, cfg, f, q)
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				poll(pollCtx, cfg, f, q)
			}
		}
	}()

	return cancel
}

func poll(ctx context.Context, cfg *config.Config, f *fetcher.Fetcher, q queue.Queue) {
	url := cfg.RosterURL
	if cfg.IndexURL != "" {
		discovered, err := f.DiscoverRosterURL(ctx, cfg.IndexURL)
		if err != nil {
			log.Printf("Roster link discovery failed, falling back to configured URL: %v", err)
		} else {
			url = discovered
		}
	}
	if url == "" {
		log.Printf("No roster URL configured, skipping poll")
		return
	}
	if err := jobs.Enqueue(ctx, q, jobs.ParseRosterPayload{URL: url}); err != nil {
		log.Printf("Failed to enqueue poll job: %v", err)
	}
}

func waitForShutdown(httpServer *http.Server, workerCancel context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Println("Shutting down...")

	workerCancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
