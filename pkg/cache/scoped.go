package cache

// ScopedKeyer wraps a Keyer with a prefix, so deployments sharing one Redis
// instance keep their entries apart. It backs the cache.key_prefix setting:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "pathloom:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer defaults to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for upstream response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// XrefKey generates a prefixed key for cross-reference caching.
func (k *ScopedKeyer) XrefKey(organism, source, id, target string) string {
	return k.prefix + k.inner.XrefKey(organism, source, id, target)
}
