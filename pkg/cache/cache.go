// Package cache stores extraction results between runs.
//
// Extraction is the only expensive step of the pipeline, and its output (a
// selection) is small. The pipeline keys a cached selection by the
// fingerprint of the input graph and the extractor name, so re-rendering a
// benchmark in another mode, or printing its costs again, skips extraction.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (useful for `extractgym serve`)
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer], optionally namespaced with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// TTLSelection is how long extracted selections are kept by default.
const TTLSelection = 7 * 24 * time.Hour
