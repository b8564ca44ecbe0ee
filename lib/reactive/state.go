package reactive

// State is a string-keyed record of signals, created lazily on first access.
//
// It backs page-level state where fields are discovered from markup rather
// than declared up front:
//
//	st := reactive.NewState(map[string]any{"title": "Hi"})
//	st.Get("title")       // tracked read
//	st.Set("title", "Bye") // notifies readers of "title" only
//
// Each field is an independent signal; writing one field never re-runs
// effects that only read others.
type State struct {
	fields map[string]*Signal[any]
}

// NewState creates a state record seeded from initial. A nil map is allowed.
func NewState(initial map[string]any) *State {
	st := &State{fields: make(map[string]*Signal[any], len(initial))}
	for k, v := range initial {
		st.fields[k] = NewSignal[any](v)
	}
	return st
}

// Get returns the field value, subscribing the running effect. Reading a
// field that was never set returns nil (and subscribes to future sets).
func (st *State) Get(key string) any {
	return st.field(key).Get()
}

// Peek returns the field value without subscribing.
func (st *State) Peek(key string) any {
	return st.field(key).Peek()
}

// Set writes the field, notifying its readers.
func (st *State) Set(key string, value any) {
	st.field(key).Set(value)
}

// Signal returns the underlying signal for a field, for callers that want
// to place it in a scope directly.
func (st *State) Signal(key string) *Signal[any] {
	return st.field(key)
}

// Keys returns the currently known field names, in no particular order.
func (st *State) Keys() []string {
	keys := make([]string, 0, len(st.fields))
	for k := range st.fields {
		keys = append(keys, k)
	}
	return keys
}

func (st *State) field(key string) *Signal[any] {
	sig, ok := st.fields[key]
	if !ok {
		sig = NewSignal[any](nil)
		st.fields[key] = sig
	}
	return sig
}
