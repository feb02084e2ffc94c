// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package database

import (
	"database/sql"
	"fmt"
	"time"
)

// DocumentLog tracks, per document URL, the last content hash and source
// date that were successfully processed, and records a history of parse
// runs. The scheduler's change detection is a single LastSeen call against
// this table; the parser itself never does change detection.
type DocumentLog struct {
	db *sql.DB
}

// RunEvent is one recorded parse run.
type RunEvent struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	URL        string    `json:"url"`
	SourceDate string    `json:"source_date"`
	Status     string    `json:"status"`
	Details    string    `json:"details"`
}

// NewDocumentLog creates a new document log
func NewDocumentLog(db *sql.DB) (*DocumentLog, error) {
	l := &DocumentLog{db: db}
	if err := l.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize document log schema: %w", err)
	}
	return l, nil
}

func (l *DocumentLog) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		url TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		source_date TEXT NOT NULL,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS parse_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		url TEXT NOT NULL,
		source_date TEXT,
		status TEXT NOT NULL,
		details TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_parse_runs_timestamp ON parse_runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_parse_runs_url ON parse_runs(url);
	`
	_, err := l.db.Exec(schema)
	return err
}

// LastSeen answers "what was the previous content hash and source date for
// this document URL". Empty strings mean the URL was never processed.
func (l *DocumentLog) LastSeen(url string) (contentHash, sourceDate string, err error) {
	err = l.db.QueryRow(
		"SELECT content_hash, source_date FROM documents WHERE url = ?", url,
	).Scan(&contentHash, &sourceDate)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to query document: %w", err)
	}
	return contentHash, sourceDate, nil
}

// RecordDocument upserts the latest processed hash/date for a URL.
func (l *DocumentLog) RecordDocument(url, contentHash, sourceDate string) error {
	_, err := l.db.Exec(
		"INSERT OR REPLACE INTO documents (url, content_hash, source_date, fetched_at) VALUES (?, ?, ?, ?)",
		url, contentHash, sourceDate, time.Now(),
	)
	return err
}

// LogRun appends one run to the history.
func (l *DocumentLog) LogRun(runID, url, sourceDate, status, details string) error {
	_, err := l.db.Exec(
		"INSERT INTO parse_runs (run_id, timestamp, url, source_date, status, details) VALUES (?, ?, ?, ?, ?, ?)",
		runID, time.Now(), url, sourceDate, status, details,
	)
	return err
}

// RecentRuns returns the last N runs, newest first.
func (l *DocumentLog) RecentRuns(limit int) ([]RunEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.Query(
		"SELECT id, run_id, timestamp, url, source_date, status, details FROM parse_runs ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []RunEvent
	for rows.Next() {
		var e RunEvent
		if err := rows.Scan(&e.ID, &e.RunID, &e.Timestamp, &e.URL, &e.SourceDate, &e.Status, &e.Details); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
