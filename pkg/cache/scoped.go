package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when one shared backend (Redis, a common cache dir)
// serves several users or deployments that must not see each other's
// entries.
//
// Example usage:
//
//	// Per-user keys on a shared Redis
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for shared public feeds
//	globalKeyer := NewDefaultKeyer()
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// SourceKey generates a prefixed key for loaded events.
func (k *ScopedKeyer) SourceKey(ref string, opts SourceKeyOpts) string {
	return k.prefix + k.inner.SourceKey(ref, opts)
}

// LayoutKey generates a prefixed key for composed layouts.
func (k *ScopedKeyer) LayoutKey(eventsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(eventsHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
