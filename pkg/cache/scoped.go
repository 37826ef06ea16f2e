package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one backend, e.g. a Redis instance used by more than one server.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "bench:v2:")
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

// SelectionKey generates a prefixed selection key.
func (k *ScopedKeyer) SelectionKey(graphHash, extractor string) string {
	return k.prefix + k.inner.SelectionKey(graphHash, extractor)
}
