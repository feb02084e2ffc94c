// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package queue

import (
	"context"
)

// MemoryQueue implements Queue on a buffered channel. Used when the server
// runs without Redis: the watcher, the poller, and the workers all live in
// one process, so a channel is enough.
type MemoryQueue struct {
	jobs chan Job
}

// NewMemoryQueue creates an in-process queue with the given buffer size.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 64
	}
	return &MemoryQueue{jobs: make(chan Job, size)}
}

// Enqueue adds a job, blocking if the buffer is full.
func (m *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case m.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks until a job is available or the context is cancelled.
func (m *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job := <-m.jobs:
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}
