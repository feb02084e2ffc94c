// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package worker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/roster-watch/internal/queue"
)

func TestStartWorkers(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue(8)

	// Track processed jobs
	var mu sync.Mutex
	var processed []queue.Job

	handler := func(ctx context.Context, job queue.Job) error {
		mu.Lock()
		defer mu.Unlock()
		processed = append(processed, job)
		return nil
	}

	numJobs := 3
	for i := 0; i < numJobs; i++ {
		job := queue.Job{
			Type:      "parse_roster",
			Payload:   []byte(`{"index": ` + strconv.Itoa(i) + `}`),
			CreatedAt: time.Now(),
		}
		if err := q.Enqueue(ctx, job); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- StartWorkers(workerCtx, q, handler, 2)
	}()

	// Wait for the queue to drain
	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		count := len(processed)
		mu.Unlock()
		if count == numJobs {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Timed out waiting for jobs, processed %d of %d", count, numJobs)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("StartWorkers returned error: %v", err)
	}
}

func TestStartWorkers_HandlerErrorContinues(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue(8)

	var mu sync.Mutex
	var seen []string

	// First job fails, the worker must survive and process the second.
	handler := func(ctx context.Context, job queue.Job) error {
		mu.Lock()
		seen = append(seen, job.Type)
		mu.Unlock()
		if job.Type == "bad_job" {
			return errors.New("simulated failure")
		}
		return nil
	}

	for _, jobType := range []string{"bad_job", "parse_roster"} {
		if err := q.Enqueue(ctx, queue.Job{Type: jobType, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- StartWorkers(workerCtx, q, handler, 1)
	}()

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		count := len(seen)
		mu.Unlock()
		if count == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Timed out, worker saw %d jobs", count)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("StartWorkers returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if seen[0] != "bad_job" || seen[1] != "parse_roster" {
		t.Errorf("Unexpected processing order: %v", seen)
	}
}
