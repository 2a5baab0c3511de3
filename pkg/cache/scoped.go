package cache

// ScopedKeyer wraps a Keyer with a prefix so that separate docks sharing a
// backend do not see each other's entries.
//
//	sessionKeyer := NewScopedKeyer(NewDefaultKeyer(), "session:"+id+":")
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

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(opts)
}

// ManifestKey generates a prefixed manifest key.
func (k *ScopedKeyer) ManifestKey(contentHash string) string {
	return k.prefix + k.inner.ManifestKey(contentHash)
}
