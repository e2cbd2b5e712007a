// Package cache provides the byte-level cache behind the pipeline stages.
//
// A [Cache] stores opaque values under content-derived keys built by a
// [Keyer]. Three backends ship with timegrid:
//
//   - [NewFileCache]: sharded JSON files, the CLI default
//   - [NewRedisCache]: shared cache for server deployments
//   - [NewNullCache]: disables caching entirely
//
// Keys follow the pipeline's stage boundaries: a source key caches fetched
// events, a layout key caches composition, an artifact key caches rendered
// bytes. Wrap a keyer with [NewScopedKeyer] when several tenants share one
// backend.
package cache

import (
	"context"
	"time"
)

// Default TTLs for the three pipeline stages. Source data can change on the
// calendar server at any time, so it expires quickly. Layouts and artifacts
// are pure functions of their inputs and keep longer.
const (
	TTLSource   = 1 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with per-entry TTLs.
//
// Get reports a miss with a false second return; errors are reserved for
// backend failures. A TTL of 0 in Set means the entry never expires.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}
