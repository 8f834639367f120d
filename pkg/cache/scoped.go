package cache

// ScopedKeyer prefixes every key of an inner [Keyer], giving each scope
// (a server instance, a test) its own namespace in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey implements [Keyer].
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// FreezeKey implements [Keyer].
func (k *ScopedKeyer) FreezeKey(opts FreezeKeyOpts) string {
	return k.prefix + k.inner.FreezeKey(opts)
}
