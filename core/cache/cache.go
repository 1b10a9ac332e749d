package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores encoded entities by key. Implementations are interchangeable:
// the sync engine swaps them between the load and push phases.
type Cache interface {
	// Get returns the value stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key. A zero ttl keeps the entry until eviction.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key joins key parts with "|".
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}
