// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package jobs

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roster-watch/internal/database"
	"github.com/roster-watch/internal/fetcher"
	"github.com/roster-watch/internal/queue"
	"github.com/roster-watch/internal/roster"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := database.NewRosterStore(db)
	if err != nil {
		t.Fatalf("NewRosterStore failed: %v", err)
	}
	docLog, err := database.NewDocumentLog(db)
	if err != nil {
		t.Fatalf("NewDocumentLog failed: %v", err)
	}

	return &Runner{
		Fetcher:        fetcher.New(),
		Store:          store,
		Log:            docLog,
		Engine:         roster.NewEngine(roster.DefaultOptions()),
		DegradedPolicy: PolicyDiscard,
	}
}

func TestRun_SkipsUnchangedDocument(t *testing.T) {
	r := testRunner(t)

	path := filepath.Join(t.TempDir(), "scsoal.pdf")
	content := []byte("%PDF-1.7 roster edition one")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	// Pretend this exact edition was already processed.
	if err := r.Log.RecordDocument(path, fetcher.HashBytes(content), "2025-09-16"); err != nil {
		t.Fatalf("RecordDocument failed: %v", err)
	}

	if err := r.Run(context.Background(), ParseRosterPayload{LocalPath: path}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	runs, err := r.Log.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != "Skipped" {
		t.Errorf("Expected a single Skipped run, got %+v", runs)
	}
}

func TestRun_ForceBypassesChangeDetection(t *testing.T) {
	r := testRunner(t)

	path := filepath.Join(t.TempDir(), "scsoal.pdf")
	// Valid header but no parsable body, so a forced run reaches the
	// parser and fails there instead of being skipped.
	content := []byte("%PDF-1.7 roster edition one")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := r.Log.RecordDocument(path, fetcher.HashBytes(content), "2025-09-16"); err != nil {
		t.Fatalf("RecordDocument failed: %v", err)
	}

	err := r.Run(context.Background(), ParseRosterPayload{LocalPath: path, Force: true})
	if err == nil {
		t.Fatal("Expected forced run on a bogus PDF to fail in the parser")
	}

	runs, _ := r.Log.RecentRuns(10)
	if len(runs) != 1 || runs[0].Status != "Error" {
		t.Errorf("Expected a single Error run, got %+v", runs)
	}
}

func TestRun_RejectsNonPDF(t *testing.T) {
	r := testRunner(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := r.Run(context.Background(), ParseRosterPayload{LocalPath: path}); err == nil {
		t.Error("Expected error for non-PDF input, got nil")
	}
}

func TestRun_EmptyPayload(t *testing.T) {
	r := testRunner(t)
	if err := r.Run(context.Background(), ParseRosterPayload{}); err == nil {
		t.Error("Expected error for payload without url or localPath")
	}
}

func TestHandle_UnknownJobType(t *testing.T) {
	r := testRunner(t)
	job := queue.Job{Type: "resize_image", CreatedAt: time.Now()}
	if err := r.Handle(context.Background(), job); err == nil {
		t.Error("Expected error for unknown job type")
	}
}

func TestEnqueue_RoundTrip(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue(1)

	payload := ParseRosterPayload{URL: "https://clerk.house.gov/committee_info/scsoal.pdf", Force: true}
	if err := Enqueue(ctx, q, payload); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	job, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if job.Type != JobTypeParseRoster {
		t.Errorf("Job type = %s", job.Type)
	}
}
