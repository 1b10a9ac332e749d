package cache

import (
	"context"
	"sync"
	"time"
)

var never = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

type sharedEntry struct {
	value   []byte
	expires time.Time
}

func (e sharedEntry) expiredAt(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Shared is a process-wide cache with per-entry expiry.
// When full, expired entries are swept first and then the entry closest
// to expiry is evicted.
type Shared struct {
	mu         sync.RWMutex
	entries    map[string]sharedEntry
	maxEntries int
	now        func() time.Time
}

// SharedOption configures a Shared cache.
type SharedOption func(*Shared)

// WithMaxEntries bounds the number of entries. Zero means unbounded.
func WithMaxEntries(n int) SharedOption {
	return func(s *Shared) { s.maxEntries = n }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) SharedOption {
	return func(s *Shared) { s.now = now }
}

// NewShared creates a shared cache.
func NewShared(opts ...SharedOption) *Shared {
	s := &Shared{
		entries: make(map[string]sharedEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Shared) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expiredAt(s.now()) {
		return e.value, true, nil
	}

	// The entry may have been refreshed since the read lock was released.
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !cur.expiredAt(s.now()) {
		return cur.value, true, nil
	}
	delete(s.entries, key)
	return nil, false, nil
}

func (s *Shared) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}

	if _, exists := s.entries[key]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictLocked()
	}
	s.entries[key] = sharedEntry{value: value, expires: expires}
	return nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (s *Shared) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Shared) evictLocked() {
	now := s.now()
	for k, e := range s.entries {
		if e.expiredAt(now) {
			delete(s.entries, k)
		}
	}
	if len(s.entries) < s.maxEntries {
		return
	}

	var victim string
	var soonest time.Time
	found := false
	for k, e := range s.entries {
		exp := e.expires
		if exp.IsZero() {
			exp = never
		}
		if !found || exp.Before(soonest) {
			victim, soonest, found = k, exp, true
		}
	}
	delete(s.entries, victim)
}
