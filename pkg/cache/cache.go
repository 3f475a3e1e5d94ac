// Package cache stores computed layouts and rendered artifacts so repeated
// runs over the same edge list skip the work.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (API server, CI)
//   - [NullCache]: stores nothing (caching disabled, tests)
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the input plus every option
// that changes the output. [ScopedKeyer] adds a prefix so several tenants or
// environments can share one backend.
//
// Cache writes are best effort: callers log and ignore Set errors, since a
// failed write only costs a recomputation later.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached entry kinds.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil); an
	// error means the backend failed, not that the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
