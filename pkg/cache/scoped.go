package cache

// ScopedKeyer wraps a Keyer with a prefix to isolate namespaces, for example
// one per benchmark set or per API tenant.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tiny-set:")
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

// SolveKey generates a prefixed key for solved sequences.
func (k *ScopedKeyer) SolveKey(graphHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(graphHash, opts)
}
