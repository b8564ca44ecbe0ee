package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a full HTML document.
func ParseDocument(src string) (*html.Node, error) {
	return html.Parse(strings.NewReader(src))
}

// ParseFragment parses markup in body context and returns the top-level
// nodes. Used for loop templates, component output, and raw markup values.
func ParseFragment(src string) ([]*html.Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	return html.ParseFragment(strings.NewReader(src), ctx)
}

// RenderString serializes a node (and its subtree) back to markup.
func RenderString(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// RenderChildren serializes only the children of n, in order.
func RenderChildren(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// Text creates a text node.
func Text(content string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: content}
}

// Comment creates a comment node with the given body.
func Comment(body string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: body}
}

// Element creates an element node with the given tag name.
func Element(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// Clone deep-copies a node and its subtree. The clone is detached.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Detach removes n from its parent, if any. The node keeps its children.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore inserts node into parent immediately before ref. A nil ref
// appends. The node is detached first; x/net/html panics otherwise.
func InsertBefore(parent, node, ref *html.Node) {
	Detach(node)
	parent.InsertBefore(node, ref)
}

// Append detaches node and appends it to parent.
func Append(parent, node *html.Node) {
	Detach(node)
	parent.AppendChild(node)
}

// ClearChildren removes every child of n.
func ClearChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Walk visits n and its subtree in document order (pre-order). The visitor
// returns false to skip the current node's children.
func Walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		// The visitor may detach or replace c; capture the successor first.
		next := c.NextSibling
		Walk(c, visit)
		c = next
	}
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Body returns the body element of a parsed document, or the node itself
// when no body exists (fragment roots).
func Body(doc *html.Node) *html.Node {
	var body *html.Node
	Walk(doc, func(n *html.Node) bool {
		if body != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return false
		}
		return true
	})
	if body == nil {
		return doc
	}
	return body
}
