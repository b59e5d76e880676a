package store

import (
	"context"
	"sync"
)

// Queue is the explicit single-flight serialization layer for mutations.
// The store's load-mutate-save calls take no lock of their own (the format
// assumes a single-process, effectively single-writer desktop workload);
// embedding applications route every mutating call through one Queue per
// database file so two cycles can never interleave and drop a write.
//
// Read-only calls may bypass the queue; they observe whichever complete
// file the last rename published.
type Queue struct {
	mu sync.Mutex
}

// NewQueue creates a mutation queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Do runs fn exclusively. Mutations queued behind a running one block
// until it finishes; ctx cancellation is fn's own concern once started.
func (q *Queue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return fn(ctx)
}
