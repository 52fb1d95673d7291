// Package oplog keeps the bounded list of recent back-office operations (system_logs).
package oplog

import (
	"context"
	"sync"
	"time"
)

const DefaultCapacity = 500

type Entry struct {
	Module    string    `json:"module"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
}

type Store interface {
	Record(ctx context.Context, entry Entry) error
	// List returns at most limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Entry, error)
}

// Ring is an in-memory Store that evicts the oldest entry once capacity is reached.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	size    int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{entries: make([]Entry, capacity)}
}

func (r *Ring) Capacity() int { return len(r.entries) }

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *Ring) Record(_ context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	if r.size < len(r.entries) {
		r.size++
	}
	return nil
}

func (r *Ring) List(_ context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.size
	if limit > 0 && limit < count {
		count = limit
	}
	result := make([]Entry, 0, count)
	for i := 1; i <= count; i++ {
		pos := (r.next - i + len(r.entries)) % len(r.entries)
		result = append(result, r.entries[pos])
	}
	return result, nil
}
