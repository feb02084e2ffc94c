// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package jobs wires the parse pipeline together: fetch a roster document,
// detect whether it changed, run the parser, apply the degraded policy,
// persist, and notify.
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roster-watch/internal/database"
	"github.com/roster-watch/internal/fetcher"
	"github.com/roster-watch/internal/notify"
	"github.com/roster-watch/internal/qa"
	"github.com/roster-watch/internal/queue"
	"github.com/roster-watch/internal/roster"
)

// JobTypeParseRoster identifies a roster parse job on the queue.
const JobTypeParseRoster = "parse_roster"

// Degraded run policies.
const (
	PolicyStore   = "store"
	PolicyDiscard = "discard"
)

// ParseRosterPayload is the payload of a parse_roster job. Either URL or
// LocalPath is set. Force skips change detection, used by backfill and the
// manual trigger endpoint.
type ParseRosterPayload struct {
	URL       string `json:"url,omitempty"`
	LocalPath string `json:"localPath,omitempty"`
	Force     bool   `json:"force,omitempty"`
}

// Enqueue puts a parse_roster job on the queue.
func Enqueue(ctx context.Context, q queue.Queue, payload ParseRosterPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return q.Enqueue(ctx, queue.Job{
		Type:      JobTypeParseRoster,
		Payload:   data,
		CreatedAt: time.Now(),
	})
}

// Runner executes parse_roster jobs.
type Runner struct {
	Fetcher        *fetcher.Fetcher
	Store          *database.RosterStore
	Log            *database.DocumentLog
	Hub            *notify.Hub
	Desktop        *notify.Desktop
	Engine         *roster.Engine
	DegradedPolicy string
}

// Handle dispatches a dequeued job. Wire this into worker.StartWorkers.
func (r *Runner) Handle(ctx context.Context, job queue.Job) error {
	switch job.Type {
	case JobTypeParseRoster:
		var payload ParseRosterPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal parse_roster payload: %w", err)
		}
		return r.Run(ctx, payload)
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}

// Run executes one parse: load the document, skip if unchanged, parse,
// apply the degraded policy, persist, record the run, and broadcast.
func (r *Runner) Run(ctx context.Context, payload ParseRosterPayload) error {
	runID := uuid.New().String()

	data, contentHash, source, err := r.loadDocument(ctx, payload)
	if err != nil {
		r.logRun(runID, source, "", "Error", err.Error())
		return err
	}

	// Change detection: one hash comparison against the document log.
	if !payload.Force && r.Log != nil {
		lastHash, lastDate, err := r.Log.LastSeen(source)
		if err != nil {
			return fmt.Errorf("failed to check document log: %w", err)
		}
		if lastHash == contentHash {
			log.Printf("Run %s: %s unchanged since %s, skipping", runID, source, lastDate)
			r.logRun(runID, source, lastDate, "Skipped", "content hash unchanged")
			return nil
		}
	}

	result, err := r.Engine.Parse(ctx, bytes.NewReader(data), roster.Source{
		URL:         source,
		ContentHash: contentHash,
	})
	if err != nil {
		r.logRun(runID, source, "", "Error", err.Error())
		r.alert(runID, source, "", "Error", fmt.Sprintf("parse failed: %v", err))
		return fmt.Errorf("parse failed for %s: %w", source, err)
	}

	sourceDate := ""
	if len(result.Committees) > 0 {
		sourceDate = result.Committees[0].SourceDate
	}

	details := fmt.Sprintf("%d committees, %d subcommittees, %d members, %d assignments",
		len(result.Committees), len(result.Subcommittees), len(result.Members), len(result.Assignments))

	if result.Status == roster.StatusDegraded {
		details += "; " + strings.Join(result.Warnings, "; ")
		r.alert(runID, source, sourceDate, string(result.Status), details)

		if r.DegradedPolicy != PolicyStore {
			log.Printf("Run %s: degraded result discarded: %s", runID, details)
			r.logRun(runID, source, sourceDate, string(result.Status), details+" (discarded)")
			return nil
		}
		log.Printf("Run %s: degraded result stored per policy: %s", runID, details)
	}

	// Cross-check against the independent plain-text extraction. A failed
	// check is logged and alerted, never fatal: the primary extraction is
	// the source of truth.
	if report, err := qa.Validate(data, result); err != nil {
		log.Printf("Run %s: validation pass failed: %v", runID, err)
	} else if !report.OK() {
		msg := fmt.Sprintf("validation found %d entities missing from fallback text: %s",
			len(report.Missing), strings.Join(report.Missing, "; "))
		log.Printf("Run %s: %s", runID, msg)
		r.alert(runID, source, sourceDate, "Validation", msg)
	}

	if err := r.Store.SaveResult(result); err != nil {
		r.logRun(runID, source, sourceDate, "Error", err.Error())
		return fmt.Errorf("failed to store result: %w", err)
	}
	if r.Log != nil {
		if err := r.Log.RecordDocument(source, contentHash, sourceDate); err != nil {
			return fmt.Errorf("failed to record document: %w", err)
		}
	}

	r.logRun(runID, source, sourceDate, string(result.Status), details)

	if result.Status == roster.StatusSuccess {
		r.broadcast(runID, source, sourceDate, string(result.Status),
			fmt.Sprintf("Roster %s parsed: %s", sourceDate, details), "info")
	}

	log.Printf("Run %s: %s %s stored (%s)", runID, source, sourceDate, details)
	return nil
}

// loadDocument reads the roster bytes from a URL or the local filesystem.
// The returned source string is what the document log is keyed on.
func (r *Runner) loadDocument(ctx context.Context, payload ParseRosterPayload) (data []byte, hash, source string, err error) {
	if payload.LocalPath != "" {
		data, err = os.ReadFile(payload.LocalPath)
		if err != nil {
			return nil, "", payload.LocalPath, fmt.Errorf("failed to read %s: %w", payload.LocalPath, err)
		}
		return data, fetcher.HashBytes(data), payload.LocalPath, nil
	}
	if payload.URL == "" {
		return nil, "", "", fmt.Errorf("parse_roster payload has neither url nor localPath")
	}
	data, hash, err = r.Fetcher.Fetch(ctx, payload.URL)
	return data, hash, payload.URL, err
}

func (r *Runner) logRun(runID, source, sourceDate, status, details string) {
	if r.Log == nil {
		return
	}
	if err := r.Log.LogRun(runID, source, sourceDate, status, details); err != nil {
		log.Printf("Run %s: failed to log run: %v", runID, err)
	}
}

// alert reports a degraded or failed run on every channel.
func (r *Runner) alert(runID, source, sourceDate, status, details string) {
	r.broadcast(runID, source, sourceDate, status, details, "warning")
	if r.Desktop != nil {
		r.Desktop.Alert("Roster parse "+strings.ToLower(status), details)
	}
}

func (r *Runner) broadcast(runID, source, sourceDate, status, message, level string) {
	if r.Hub == nil {
		return
	}
	r.Hub.Broadcast(notify.RunNotice{
		Type:       "parse_run",
		RunID:      runID,
		URL:        source,
		SourceDate: sourceDate,
		Status:     status,
		Message:    message,
		Level:      level,
	})
}
