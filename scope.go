package zenith

// Scope maps variable names to current values. The hydration engine only
// ever reads it, through compiled expression functions; values are commonly
// reactive signals so reads inside binding effects are tracked.
type Scope map[string]any

// Fork returns a child scope layered over the parent by shallow copy.
// Writes to the child shadow the parent; the parent is never mutated.
// Loop iterations and nested components each run against a fork.
func (s Scope) Fork() Scope {
	child := make(Scope, len(s)+2)
	for k, v := range s {
		child[k] = v
	}
	return child
}
