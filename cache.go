package strawberry

import (
	"context"
	"time"
)

// Cache is the interface for storing derived-schema snapshots.
// Users should implement this interface with their preferred caching solution
// (e.g., Redis, Memcached, in-memory).
type Cache interface {
	// Get retrieves a snapshot from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a snapshot in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a snapshot from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all snapshots from the cache.
	Clear(ctx context.Context) error
}
