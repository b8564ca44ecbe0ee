package dom

import "golang.org/x/net/html"

// GetAttr returns the value of the named attribute and whether it exists.
func GetAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute exists.
func HasAttr(n *html.Node, key string) bool {
	_, ok := GetAttr(n, key)
	return ok
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute if present.
func RemoveAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Comment nodes cannot carry serialized attributes, but the html package
// still gives every node an Attr slice. The engine uses that slot to flag
// processed comment placeholders without changing what renders.

// MarkComment flags a comment node with an in-tree marker key.
func MarkComment(n *html.Node, key string) {
	if n.Type != html.CommentNode {
		return
	}
	SetAttr(n, key, "")
}

// CommentMarked reports whether a comment node carries the marker key.
func CommentMarked(n *html.Node, key string) bool {
	return n.Type == html.CommentNode && HasAttr(n, key)
}
