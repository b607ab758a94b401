package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or
// tenants sharing one Redis instance get isolated key namespaces.
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

// HoldingsKey generates a prefixed key for holdings caching.
func (k *ScopedKeyer) HoldingsKey(contentHash string) string {
	return k.prefix + k.inner.HoldingsKey(contentHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(inputHash, opts)
}
