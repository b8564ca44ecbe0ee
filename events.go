package zenith

import (
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// bindEvent attaches one listener for one (element, event type) pair. The
// handler is resolved lazily at fire time, not at bind time: first in the
// runtime's handler table, then in the expression registry. Late binding is
// deliberate - it tolerates handlers registered after wire-up. A handler
// still missing when the event fires is a warning, never an error.
func (s *Session) bindEvent(b Binding, scope Scope) func() {
	dom.SetAttr(b.Element, attrHydrated, "")
	return s.listeners.Add(b.Element, b.EventType, func(e *dom.Event) {
		s.fireHandler(b, scope, e)
	})
}

func (s *Session) fireHandler(b Binding, scope Scope, e *dom.Event) {
	defer s.recoverPanic(ErrorContext{Activity: "event", ExprID: -1})

	if fn, ok := s.rt.handler(b.Handler); ok {
		fn(e, scope)
		return
	}

	// Fall back to the expression registry: a numeric handler reference is
	// an expression id whose value is expected to be invocable.
	if id, err := strconv.Atoi(b.Handler); err == nil {
		if expr, ok := s.rt.expression(id); ok {
			v, everr := expr(scope)
			if everr != nil {
				s.contain(ErrorContext{Activity: "event", ExprID: id}, everr)
				return
			}
			switch fn := v.(type) {
			case func(*dom.Event):
				fn(e)
				return
			case func():
				fn()
				return
			case HandlerFunc:
				fn(e, scope)
				return
			}
		}
	}

	s.rt.logger.Warn("no handler for event marker",
		zap.String("handler", b.Handler),
		zap.String("event", b.EventType),
	)
}

// Dispatch fires a synthetic event at a node. The event propagates to
// ancestor listeners unless stopped. Returns the number of listeners that
// ran.
func (s *Session) Dispatch(target *html.Node, eventType string, detail any) int {
	return s.listeners.Dispatch(target, eventType, detail)
}
