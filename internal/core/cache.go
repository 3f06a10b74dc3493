// Package core provides the business logic for scan-result normalization,
// resolution, and chat-context assembly.
package core

import (
	"context"
	"time"
)

// CacheRepository defines the interface for the short-lived key-value store
// backing webhook scan results. The core defines the interface and the data
// layer provides implementations (Redis in production).
type CacheRepository interface {
	// Set stores a value with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}
