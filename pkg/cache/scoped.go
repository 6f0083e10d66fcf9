package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. when
// several displays or tenants share one Redis instance.
//
// Example usage:
//
//	// Per-display keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "display:edu:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SnapshotKey generates a prefixed key for snapshot caching.
func (k *ScopedKeyer) SnapshotKey(datasetHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(datasetHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}
