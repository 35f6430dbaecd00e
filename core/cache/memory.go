package cache

import (
	"context"
	"time"

	"github.com/dmitrymomot/prefork/core/handler"
)

// Memory is an in-process Store backed by LRUCache.
// Entries are cloned on the way in and out.
type Memory struct {
	lru *LRUCache[string, memoryEntry]
	now func() time.Time
}

type memoryEntry struct {
	resp      *handler.Response
	expiresAt time.Time
}

// DefaultCapacity is used by NewMemory for non-positive capacities.
const DefaultCapacity = 1024

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock replaces the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an in-process store holding at most capacity responses.
func NewMemory(capacity int, opts ...MemoryOption) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Memory{
		lru: NewLRUCache[string, memoryEntry](capacity),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (*handler.Response, bool, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.lru.Remove(key)
		return nil, false, nil
	}
	return e.resp.Clone(), true, nil
}

func (m *Memory) Set(_ context.Context, key string, resp *handler.Response, ttl time.Duration) error {
	if resp == nil {
		return ErrNilResponse
	}
	e := memoryEntry{resp: resp.Clone()}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.lru.Put(key, e)
	return nil
}

// Len returns the number of stored responses, expired ones included.
func (m *Memory) Len() int {
	return m.lru.Len()
}

// Purge drops every stored response.
func (m *Memory) Purge() {
	m.lru.Clear()
}
