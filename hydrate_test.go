package zenith

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
	"github.com/zenithbuild/zenith-runtime/lib/reactive"
)

func TestHydrateValueBinding(t *testing.T) {
	rt := NewRuntime()
	title := reactive.NewSignal("Hi")
	rt.DefineExpression(0, func(s Scope) (any, error) {
		return s["title"].(*reactive.Signal[string]).Get(), nil
	})

	page, err := RenderPage(rt, `<main><!--zen:expr_0--></main>`, Scope{"title": title})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if got := page.Text("main"); got != "Hi" {
		t.Errorf("initial render = %q, want %q", got, "Hi")
	}

	title.Set("Bye")
	if got := page.Text("main"); got != "Bye" {
		t.Errorf("after update = %q, want %q", got, "Bye")
	}

	if n := countTextChildren(page.Node("main")); n != 1 {
		t.Errorf("text node count after update = %d, want 1", n)
	}
}

func TestHydrateNilContainer(t *testing.T) {
	rt := NewRuntime()
	if _, err := rt.Hydrate(nil, nil); err != ErrNoContainer {
		t.Errorf("Hydrate(nil) error = %v, want ErrNoContainer", err)
	}
}

func TestRepeatedUpdatesDoNotAccumulateNodes(t *testing.T) {
	rt := NewRuntime()
	val := reactive.NewSignal(0)
	rt.DefineExpression(0, func(s Scope) (any, error) {
		return s["n"].(*reactive.Signal[int]).Get(), nil
	})

	page, err := RenderPage(rt, `<main><!--zen:expr_0--></main>`, Scope{"n": val})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	for i := 1; i <= 10; i++ {
		val.Set(i)
	}

	main := page.Node("main")
	children := 0
	for c := main.FirstChild; c != nil; c = c.NextSibling {
		children++
	}
	// One text node plus the placeholder comment.
	if children != 2 {
		t.Errorf("child count after 10 updates = %d, want 2", children)
	}
	if got := page.Text("main"); got != "10" {
		t.Errorf("final text = %q, want %q", got, "10")
	}
}

func TestSecondScanFindsNothing(t *testing.T) {
	rt := NewRuntime()
	rt.DefineExpression(0, Value("hello"))
	rt.DefineExpression(1, Value("big"))
	rt.DefineHandler("noop", func(_ *dom.Event, _ Scope) {})

	markup := `<main data-zen-attr-class="1" data-zen-onclick="noop"><!--zen:expr_0--></main>`
	page, err := RenderPage(rt, markup, nil)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	bindings, issues := scan(page.Session.Root())
	if len(bindings) != 0 {
		t.Errorf("second scan found %d bindings, want 0", len(bindings))
	}
	if len(issues) != 0 {
		t.Errorf("second scan found %d issues, want 0", len(issues))
	}
}

func TestUnmountStopsBindingEffects(t *testing.T) {
	rt := NewRuntime()
	val := reactive.NewSignal("before")
	rt.DefineExpression(0, func(s Scope) (any, error) {
		return s["v"].(*reactive.Signal[string]).Get(), nil
	})

	page, err := RenderPage(rt, `<p><!--zen:expr_0--></p>`, Scope{"v": val})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	page.Unmount()
	val.Set("after")

	if got := page.Text("p"); got != "before" {
		t.Errorf("text after unmount = %q, want %q", got, "before")
	}

	// A second unmount is a no-op.
	page.Unmount()
}

func TestHydrateSkipsUnregisteredExpression(t *testing.T) {
	rt := NewRuntime()

	page, err := RenderPage(rt, `<p><!--zen:expr_7-->static</p>`, nil)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if page.Session.Errored() {
		t.Error("registry miss should not error the session")
	}
	if got := page.Text("p"); got != "static" {
		t.Errorf("text = %q, want %q", got, "static")
	}
}

func countTextChildren(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			count++
		}
	}
	return count
}
