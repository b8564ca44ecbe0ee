package zenith

import "golang.org/x/net/html"

// BindingKind classifies a discovered marker into the instruction the bind
// phase dispatches on.
type BindingKind int

const (
	// KindValue is a comment placeholder; the binding inserts its rendered
	// nodes immediately before the comment.
	KindValue BindingKind = iota

	// KindAttribute targets one named attribute on an existing element.
	KindAttribute

	// KindEvent attaches one listener for one event type to an element.
	KindEvent

	// KindLoop is a template fragment repeated per item of a list
	// expression, rendered into a stable sibling container.
	KindLoop

	// KindComponent instantiates a registered component on its host element.
	KindComponent
)

// String returns the kind's marker-facing name.
func (k BindingKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindAttribute:
		return "attribute"
	case KindEvent:
		return "event"
	case KindLoop:
		return "loop"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Binding is one classified instruction produced by the scan pass. Kind
// decides which of the remaining fields are meaningful.
type Binding struct {
	Kind BindingKind

	// ExprID is the expression registry id (value, attribute, loop).
	ExprID int

	// Placeholder is the comment node anchoring a value binding.
	Placeholder *html.Node

	// Element is the target element (attribute, event, component).
	Element *html.Node

	// Attr is the attribute name for an attribute binding.
	Attr string

	// EventType and Handler describe an event binding; Handler is resolved
	// lazily at fire time.
	EventType string
	Handler   string

	// Template plus the item/index variable names describe a loop binding.
	Template *html.Node
	ItemVar  string
	IndexVar string

	// Component is the registered name; PropsPayload the encoded props.
	Component    string
	PropsPayload string
}
