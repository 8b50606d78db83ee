package cache

// ScopedKeyer wraps a Keyer with a prefix so ifcqto can share one Redis
// instance with other applications.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ifcqto:")
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

// TakeoffKey generates a prefixed takeoff key.
func (k *ScopedKeyer) TakeoffKey(documentHash string, opts TakeoffKeyOpts) string {
	return k.prefix + k.inner.TakeoffKey(documentHash, opts)
}
