// Package cache provides byte-level caching for rendered graph artifacts.
//
// Rendering a graph through Graphviz is the slowest step of the pipeline,
// so the CLI caches the produced SVG/PNG bytes keyed by a content hash of
// the graph plus the render options. The [FileCache] stores entries on
// disk for reuse across runs; the [NullCache] disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-level cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKeyOpts captures the render options that affect artifact bytes.
// Two renders with equal graph hashes and equal options produce identical
// output, so they share a cache entry.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed"`
	Tombstoned bool   `json:"tombstoned"`
}

// ArtifactKey generates the cache key for a rendered artifact from a graph
// content hash and the render options.
func ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
