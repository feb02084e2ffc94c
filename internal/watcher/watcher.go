// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package watcher monitors a local drop directory for roster PDFs and
// enqueues a parse job for each one. Lets an operator feed archived
// editions by copying files instead of running the backfill tool.
package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roster-watch/internal/jobs"
	"github.com/roster-watch/internal/queue"
)

// Manager watches one directory for dropped roster PDFs.
type Manager struct {
	dir       string
	queue     queue.Queue
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewManager creates a watcher for dir. The directory is created if it
// does not exist.
func NewManager(dir string, q queue.Queue) (*Manager, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create watch directory: %w", err)
		}
		log.Printf("Created watch directory: %s", absPath)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(absPath); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		dir:     absPath,
		queue:   q,
		watcher: w,
		ctx:     ctx,
		cancel:  cancel,
	}
	// Downloads arrive in many writes; wait for the file to settle.
	m.debouncer = NewDebouncer(500*time.Millisecond, m.enqueueFile)
	return m, nil
}

// Start begins processing events. It also enqueues PDFs already present
// in the directory, so restarts don't lose dropped files.
func (m *Manager) Start() {
	go m.processEvents()
	go m.scanExisting()
	log.Printf("Watching directory: %s", m.dir)
}

// Stop shuts the watcher down.
func (m *Manager) Stop() {
	m.cancel()
	m.debouncer.Stop()
	if err := m.watcher.Close(); err != nil {
		log.Printf("Error closing watcher: %v", err)
	}
}

func (m *Manager) processEvents() {
	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if !IsRosterCandidate(event.Name) {
					continue
				}
				m.debouncer.Trigger(event.Name)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error for %s: %v", m.dir, err)
		}
	}
}

// scanExisting enqueues PDFs that were already in the directory at startup.
// Change detection downstream makes re-enqueueing old files harmless.
func (m *Manager) scanExisting() {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		log.Printf("Error scanning directory %s: %v", m.dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if IsRosterCandidate(path) {
			m.debouncer.Trigger(path)
		}
	}
}

func (m *Manager) enqueueFile(path string) {
	log.Printf("Roster PDF detected: %s", path)
	if err := jobs.Enqueue(m.ctx, m.queue, jobs.ParseRosterPayload{LocalPath: path}); err != nil {
		log.Printf("Failed to enqueue %s: %v", path, err)
	}
}

// IsRosterCandidate reports whether a dropped file looks like a roster
// document: a PDF that is not an editor or download temp file.
func IsRosterCandidate(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	lower := strings.ToLower(name)
	for _, suffix := range []string{".tmp", ".swp", ".part", ".crdownload", ".download"} {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	return strings.HasSuffix(lower, ".pdf")
}
