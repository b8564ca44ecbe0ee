package zenith

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// TestPage is a hydrated page for tests: the live session plus selector
// helpers over its tree.
//
//	page, err := zenith.RenderPage(rt, `<p><!--zen:expr_0--></p>`, scope)
//	if page.Text("p") != "hello" {
//	    t.Fatal("unexpected render")
//	}
type TestPage struct {
	Session *Session

	root *html.Node
}

// RenderPage parses markup into a fresh container and hydrates it against
// scope. The container itself is a plain <div> wrapper, so selectors match
// inside the given markup.
func RenderPage(rt *Runtime, markup string, scope Scope) (*TestPage, error) {
	container := dom.Element("div")
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		dom.Append(container, n)
	}

	session, err := rt.Hydrate(scope, container)
	if err != nil {
		return nil, err
	}
	return &TestPage{Session: session, root: container}, nil
}

// HTML returns the current markup inside the container.
func (p *TestPage) HTML() string {
	return dom.RenderChildren(p.root)
}

// HTMLContains checks whether the current markup contains substr.
func (p *TestPage) HTMLContains(substr string) bool {
	return strings.Contains(p.HTML(), substr)
}

// Find runs a CSS selector over the page.
func (p *TestPage) Find(selector string) *goquery.Selection {
	return goquery.NewDocumentFromNode(p.root).Find(selector)
}

// Text returns the trimmed text content of the first selector match.
func (p *TestPage) Text(selector string) string {
	return strings.TrimSpace(p.Find(selector).First().Text())
}

// Node returns the underlying node of the first selector match, or nil
// when nothing matches.
func (p *TestPage) Node(selector string) *html.Node {
	sel := p.Find(selector)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

// Dispatch fires an event at the first selector match and reports how many
// listeners ran. A selector with no match runs nothing.
func (p *TestPage) Dispatch(selector, eventType string, detail any) int {
	n := p.Node(selector)
	if n == nil {
		return 0
	}
	return p.Session.Dispatch(n, eventType, detail)
}

// Click fires a click event at the first selector match.
func (p *TestPage) Click(selector string) int {
	return p.Dispatch(selector, "click", nil)
}

// Unmount tears the session down.
func (p *TestPage) Unmount() {
	p.Session.Unmount()
}
