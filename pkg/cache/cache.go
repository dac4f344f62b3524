// Package cache provides local caching of computed layouts.
//
// Layout runs are deterministic for a given graph, parameter set, and
// seed, so a cached result is exactly the result a fresh run would
// produce. The CLI uses this to skip recomputation when the same graph
// file is laid out twice with the same settings.
//
// Two implementations are provided: FileCache stores entries under a
// directory (one file per key, hash-sharded), and NullCache discards
// everything for --no-cache runs and tests.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached layouts stay fresh. Layouts are cheap to
// recompute, so entries are not kept for long.
const DefaultTTL = 7 * 24 * time.Hour

// Cache stores computed artifacts keyed by content hashes.
type Cache interface {
	// Get retrieves a value. The second result is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
