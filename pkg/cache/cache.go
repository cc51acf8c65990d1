// Package cache provides content-addressed caching for computed layouts
// and rendered artifacts.
//
// Layouts are pure functions of their inputs, so a structural hash of the
// inputs is a sound cache key: a hit can be served without recomputing and
// a recompute on miss is always correct. Backends:
//
//   - [FileCache]: per-user cache directory for CLI runs
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so CLI, server, and pipeline agree on the
// key scheme.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache TTLs per stage. Snapshots change whenever the author edits the
// story, so they expire quickly; layouts and artifacts are content-addressed
// by input hash and can live longer.
const (
	TTLSnapshot = 5 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; an expired or missing key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts are the layout parameters that participate in layout cache
// keys. Two computations with the same snapshot hash but different options
// must never share a key.
type LayoutKeyOpts struct {
	ViewMode        string `json:"view_mode"`
	SelectedID      string `json:"selected_id,omitempty"`
	FocusTimelineID string `json:"focus_timeline_id,omitempty"`
	FiltersHash     string `json:"filters_hash,omitempty"`
}

// ArtifactKeyOpts are the render parameters that participate in artifact
// cache keys.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SnapshotKey keys a loaded story snapshot by project name.
	SnapshotKey(project string) string

	// LayoutKey keys a computed layout by snapshot content hash and layout
	// options.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout content hash and
	// render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme shared by CLI and server.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// SnapshotKey generates a key for a cached story snapshot.
func (k *DefaultKeyer) SnapshotKey(project string) string {
	return fmt.Sprintf("snapshot:%s", project)
}

// LayoutKey generates a key for a cached layout.
func (k *DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

// ArtifactKey generates a key for a cached rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Hash returns the hex SHA-256 of data. It is the content hash used
// throughout the pipeline: snapshots, layouts, and artifacts are all
// addressed by the hash of their canonical JSON.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a "<stage>:<hash>" key from the stage name and the key
// parts. Hashing keeps keys fixed-length no matter how large the options
// grow, and the stage prefix keeps snapshot, layout, and artifact entries
// distinguishable when inspecting a backend.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", stage, Hash(data))
}

// NullCache discards every write and misses every read. It backs --no-cache
// runs, where each command recomputes from scratch.
type NullCache struct{}

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache { return &NullCache{} }

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
