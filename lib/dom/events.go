package dom

import "golang.org/x/net/html"

// Event is a synthetic event dispatched through a ListenerTable.
type Event struct {
	Type    string
	Target  *html.Node // element the event was dispatched on
	Current *html.Node // element whose listener is running
	Detail  any
	stopped bool
}

// StopPropagation prevents the event from reaching ancestor listeners.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles one dispatched event.
type Listener func(e *Event)

// ListenerTable stores listeners keyed by node and event type, standing in
// for the native listener storage a browser element would have. Dispatch
// propagates upward through ancestors until stopped.
type ListenerTable struct {
	listeners map[*html.Node]map[string][]Listener
}

// NewListenerTable creates an empty table.
func NewListenerTable() *ListenerTable {
	return &ListenerTable{listeners: make(map[*html.Node]map[string][]Listener)}
}

// Add registers a listener for (node, event type) and returns its remover.
// The remover is idempotent.
func (t *ListenerTable) Add(n *html.Node, eventType string, fn Listener) (remove func()) {
	byType, ok := t.listeners[n]
	if !ok {
		byType = make(map[string][]Listener)
		t.listeners[n] = byType
	}
	byType[eventType] = append(byType[eventType], fn)
	idx := len(byType[eventType]) - 1

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		current := t.listeners[n][eventType]
		if idx < len(current) && current[idx] != nil {
			current[idx] = nil
		}
	}
}

// Has reports whether any listener is registered for (node, event type).
func (t *ListenerTable) Has(n *html.Node, eventType string) bool {
	for _, fn := range t.listeners[n][eventType] {
		if fn != nil {
			return true
		}
	}
	return false
}

// Dispatch fires an event at n and propagates it through n's ancestors.
// Returns the number of listeners that ran.
func (t *ListenerTable) Dispatch(n *html.Node, eventType string, detail any) int {
	e := &Event{Type: eventType, Target: n, Detail: detail}
	ran := 0
	for node := n; node != nil; node = node.Parent {
		e.Current = node
		for _, fn := range t.listeners[node][eventType] {
			if fn == nil {
				continue
			}
			fn(e)
			ran++
			if e.stopped {
				return ran
			}
		}
		if e.stopped {
			break
		}
	}
	return ran
}

// RemoveNode drops every listener attached to n.
func (t *ListenerTable) RemoveNode(n *html.Node) {
	delete(t.listeners, n)
}

// RemoveSubtree drops listeners for n and everything beneath it. Called
// when a rendered region is cleared so stale nodes cannot leak listeners.
func (t *ListenerTable) RemoveSubtree(n *html.Node) {
	Walk(n, func(node *html.Node) bool {
		delete(t.listeners, node)
		return true
	})
}

// Clear empties the table.
func (t *ListenerTable) Clear() {
	t.listeners = make(map[*html.Node]map[string][]Listener)
}
