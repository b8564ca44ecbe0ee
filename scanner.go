package zenith

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// Marker conventions shared with the build step.
const (
	commentPrefix = "zen:expr_"

	attrBindPrefix  = "data-zen-attr-"
	eventBindPrefix = "data-zen-on"

	attrEach      = "data-zen-each"
	attrItem      = "data-zen-item"
	attrIndex     = "data-zen-index"
	attrComponent = "data-zen-component"
	attrProps     = "data-zen-props"
	attrHydrated  = "data-zen-hydrated"
	attrItems     = "data-zen-items"

	commentHydratedKey = "zen-hydrated"
)

// scanIssue records a malformed marker found during the scan. The affected
// marker is skipped; the rest of the subtree still hydrates.
type scanIssue struct {
	node *html.Node
	err  error
}

// scan walks the subtree once, in document order, and classifies every
// discoverable marker into a binding instruction. Scanning is read-only:
// no structural mutation happens here. Markers already flagged as hydrated
// are skipped, so a second scan over the same tree yields nothing.
//
// Loop templates and component hosts terminate descent: their contents are
// owned by the loop reconciler and the component instance respectively.
func scan(root *html.Node) ([]Binding, []scanIssue) {
	var bindings []Binding
	var issues []scanIssue

	dom.Walk(root, func(n *html.Node) bool {
		switch n.Type {
		case html.CommentNode:
			body := strings.TrimSpace(n.Data)
			if !strings.HasPrefix(body, commentPrefix) {
				return true
			}
			if dom.CommentMarked(n, commentHydratedKey) {
				return true
			}
			id, err := strconv.Atoi(strings.TrimPrefix(body, commentPrefix))
			if err != nil || id < 0 {
				issues = append(issues, scanIssue{node: n, err: fmt.Errorf("%w: comment placeholder %q", ErrMalformedMarker, body)})
				return true
			}
			bindings = append(bindings, Binding{
				Kind:        KindValue,
				ExprID:      id,
				Placeholder: n,
			})
			return true

		case html.ElementNode:
			hydrated := dom.HasAttr(n, attrHydrated)

			if name, ok := dom.GetAttr(n, attrComponent); ok {
				if !hydrated {
					payload, _ := dom.GetAttr(n, attrProps)
					bindings = append(bindings, Binding{
						Kind:         KindComponent,
						Element:      n,
						Component:    name,
						PropsPayload: payload,
					})
				}
				// The instance owns everything beneath its host.
				return false
			}

			if n.Data == "template" && dom.HasAttr(n, attrEach) {
				if !hydrated {
					b, err := classifyLoop(n)
					if err != nil {
						issues = append(issues, scanIssue{node: n, err: err})
					} else {
						bindings = append(bindings, b)
					}
				}
				// Template contents are inert until the reconciler clones them.
				return false
			}

			if hydrated {
				return true
			}
			elementBindings, elementIssues := classifyElement(n)
			bindings = append(bindings, elementBindings...)
			issues = append(issues, elementIssues...)
			return true

		default:
			return true
		}
	})

	return bindings, issues
}

// classifyElement extracts attribute and event instructions from one
// element's attributes, in attribute order.
func classifyElement(n *html.Node) ([]Binding, []scanIssue) {
	var bindings []Binding
	var issues []scanIssue

	for _, a := range n.Attr {
		switch {
		case strings.HasPrefix(a.Key, attrBindPrefix):
			name := strings.TrimPrefix(a.Key, attrBindPrefix)
			id, err := strconv.Atoi(a.Val)
			if name == "" || err != nil || id < 0 {
				issues = append(issues, scanIssue{node: n, err: fmt.Errorf("%w: attribute marker %s=%q", ErrMalformedMarker, a.Key, a.Val)})
				continue
			}
			bindings = append(bindings, Binding{
				Kind:    KindAttribute,
				Element: n,
				Attr:    name,
				ExprID:  id,
			})

		case strings.HasPrefix(a.Key, eventBindPrefix):
			eventType := strings.TrimPrefix(a.Key, eventBindPrefix)
			if eventType == "" || a.Val == "" {
				issues = append(issues, scanIssue{node: n, err: fmt.Errorf("%w: event marker %s=%q", ErrMalformedMarker, a.Key, a.Val)})
				continue
			}
			bindings = append(bindings, Binding{
				Kind:      KindEvent,
				Element:   n,
				EventType: eventType,
				Handler:   a.Val,
			})
		}
	}

	return bindings, issues
}

func classifyLoop(n *html.Node) (Binding, error) {
	each, _ := dom.GetAttr(n, attrEach)
	id, err := strconv.Atoi(each)
	if err != nil || id < 0 {
		return Binding{}, fmt.Errorf("%w: loop template with %s=%q", ErrMalformedMarker, attrEach, each)
	}
	item, ok := dom.GetAttr(n, attrItem)
	if !ok || item == "" {
		return Binding{}, fmt.Errorf("%w: loop template missing %s", ErrMalformedMarker, attrItem)
	}
	index, _ := dom.GetAttr(n, attrIndex)

	return Binding{
		Kind:     KindLoop,
		Template: n,
		ExprID:   id,
		ItemVar:  item,
		IndexVar: index,
	}, nil
}
