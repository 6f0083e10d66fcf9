// Package cache provides content-addressed caching for computed micromap
// layouts and rendered artifacts.
//
// Rebuilds are cheap but not free, and the HTTP API may serve the same
// display configuration repeatedly. The pipeline Runner therefore caches the
// serialized snapshot of each build, keyed by a hash of the dataset content
// and the build options, and rendered artifacts keyed by snapshot hash plus
// render options. Nothing here persists a live display: cached entries are
// derived artifacts with a TTL, rebuilt from source whenever absent.
//
// Backends: file (CLI default), Redis (shared deployments), and null
// (caching disabled).
package cache

import (
	"context"
	"time"
)

// Cache is the storage backend contract.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL; a zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SnapshotKeyOpts are the build options that vary a computed snapshot for
// the same dataset.
type SnapshotKeyOpts struct {
	IDVar    string
	Grouping []int
	NGroups  int
	Spacing  string
	Vars     []string
	Palette  []string
}

// ArtifactKeyOpts are the render options that vary an artifact for the same
// snapshot.
type ArtifactKeyOpts struct {
	Format string
	Width  float64
	Height float64
}

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// SnapshotKey keys a computed snapshot by dataset content hash and
	// build options.
	SnapshotKey(datasetHash string, opts SnapshotKeyOpts) string

	// ArtifactKey keys a rendered artifact by snapshot hash and render
	// options.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the stage inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// SnapshotKey implements Keyer.
func (k *DefaultKeyer) SnapshotKey(datasetHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", datasetHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}
