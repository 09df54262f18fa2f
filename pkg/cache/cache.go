// Package cache provides caching for conversion artifacts.
//
// Converting the same source with the same geometry and output format is
// fully deterministic, so artifacts can be cached aggressively. Three
// backends are available:
//   - null: caching disabled (the default for one-shot CLI runs)
//   - file: directory-backed cache for repeated CLI usage
//   - redis: shared cache for server deployments
//
// Keys are derived from a SHA-256 hash of the source plus the settings
// that influence the output, so a geometry or format change never serves
// a stale artifact.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long converted artifacts stay cached. Conversions
// are deterministic, so the TTL only bounds disk/redis growth.
const TTLArtifact = 7 * 24 * time.Hour

// Cache stores converted artifacts as opaque byte blobs.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
