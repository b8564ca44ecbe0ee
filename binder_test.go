package zenith

import (
	"testing"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
	"github.com/zenithbuild/zenith-runtime/lib/exprs"
	"github.com/zenithbuild/zenith-runtime/lib/reactive"
)

func TestCompiledExpressionBinding(t *testing.T) {
	rt := NewRuntime()
	rt.DefineExpression(0, Expr(exprs.MustCompile(`greeting + ", " + name`)))

	name := reactive.NewSignal[any]("Ada")
	page, err := RenderPage(rt, `<p><!--zen:expr_0--></p>`, Scope{
		"greeting": "Hello",
		"name":     name,
	})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if got := page.Text("p"); got != "Hello, Ada" {
		t.Errorf("initial render = %q, want %q", got, "Hello, Ada")
	}

	name.Set("Grace")
	if got := page.Text("p"); got != "Hello, Grace" {
		t.Errorf("after update = %q, want %q", got, "Hello, Grace")
	}
}

func TestAttributeBindingRules(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		value   any
		present bool
		want    string
	}{
		{"boolean attr truthy", "disabled", true, true, ""},
		{"boolean attr falsy", "disabled", false, false, ""},
		{"boolean attr nonzero int", "disabled", 1, true, ""},
		{"boolean attr zero", "disabled", 0, false, ""},
		{"class string", "class", "big", true, "big"},
		{"class nil keeps empty attr", "class", nil, true, ""},
		{"class false keeps empty attr", "class", false, true, ""},
		{"style string verbatim", "style", "color: red", true, "color: red"},
		{"style map sorted", "style", map[string]string{"width": "1px", "color": "red"}, true, "color: red;width: 1px;"},
		{"style nil removed", "style", nil, false, ""},
		{"plain attr string", "title", "hello", true, "hello"},
		{"plain attr number", "title", 42, true, "42"},
		{"plain attr nil removed", "title", nil, false, ""},
		{"plain attr false removed", "title", false, false, ""},
		{"plain attr true stringified", "title", true, true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRuntime()
			rt.DefineExpression(0, Value(tt.value))

			page, err := RenderPage(rt, `<p data-zen-attr-`+tt.attr+`="0" `+tt.attr+`="seed">x</p>`, nil)
			if err != nil {
				t.Fatalf("RenderPage: %v", err)
			}

			got, ok := dom.GetAttr(page.Node("p"), tt.attr)
			if ok != tt.present {
				t.Fatalf("attr present = %v, want %v (value %q)", ok, tt.present, got)
			}
			if ok && got != tt.want {
				t.Errorf("attr value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAttributeBindingReacts(t *testing.T) {
	rt := NewRuntime()
	on := reactive.NewSignal(true)
	rt.DefineExpression(0, func(s Scope) (any, error) {
		return s["on"].(*reactive.Signal[bool]).Get(), nil
	})

	page, err := RenderPage(rt, `<button data-zen-attr-disabled="0">Go</button>`, Scope{"on": on})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	btn := page.Node("button")

	if !dom.HasAttr(btn, "disabled") {
		t.Fatal("disabled should be set while signal is true")
	}
	on.Set(false)
	if dom.HasAttr(btn, "disabled") {
		t.Error("disabled should be removed when signal turns false")
	}
	on.Set(true)
	if !dom.HasAttr(btn, "disabled") {
		t.Error("disabled should return when signal turns true again")
	}
}

func TestAttributeBindingTouchesOnlyItsAttribute(t *testing.T) {
	rt := NewRuntime()
	rt.DefineExpression(0, Value(nil))

	page, err := RenderPage(rt, `<p data-zen-attr-title="0" id="keep" lang="en">x</p>`, nil)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	n := page.Node("p")
	if v, _ := dom.GetAttr(n, "id"); v != "keep" {
		t.Errorf("id = %q, want %q", v, "keep")
	}
	if v, _ := dom.GetAttr(n, "lang"); v != "en" {
		t.Errorf("lang = %q, want %q", v, "en")
	}
}

func TestRenderValueClassification(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
		text  string
	}{
		{"nil renders nothing", nil, 0, ""},
		{"false renders nothing", false, 0, ""},
		{"true renders text", true, 1, "true"},
		{"string", "hi", 1, "hi"},
		{"int", 7, 1, "7"},
		{"float", 1.5, 1, "1.5"},
		{"flat slice", []any{"a", "b"}, 2, "a"},
		{"nested slice flattens", []any{"a", []any{"b", "c"}}, 3, "a"},
		{"slice skips nil and false", []any{"a", nil, false, "b"}, 2, "a"},
		{"typed slice", []int{1, 2, 3}, 3, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := renderValue(tt.value)
			if len(nodes) != tt.want {
				t.Fatalf("node count = %d, want %d", len(nodes), tt.want)
			}
			if tt.want > 0 && nodes[0].Data != tt.text {
				t.Errorf("first node = %q, want %q", nodes[0].Data, tt.text)
			}
		})
	}
}

func TestValueBindingInsertsNode(t *testing.T) {
	rt := NewRuntime()
	rt.DefineExpression(0, Value(dom.Element("em")))

	page, err := RenderPage(rt, `<p><!--zen:expr_0--></p>`, nil)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if page.Find("p em").Length() != 1 {
		t.Errorf("expected one <em> inserted, got %s", page.HTML())
	}
}

func TestValueBindingConditional(t *testing.T) {
	rt := NewRuntime()
	show := reactive.NewSignal(true)
	rt.DefineExpression(0, func(s Scope) (any, error) {
		if s["show"].(*reactive.Signal[bool]).Get() {
			return "visible", nil
		}
		return nil, nil
	})

	page, err := RenderPage(rt, `<p><!--zen:expr_0--></p>`, Scope{"show": show})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if got := page.Text("p"); got != "visible" {
		t.Fatalf("text = %q, want %q", got, "visible")
	}

	show.Set(false)
	if got := page.Text("p"); got != "" {
		t.Errorf("text after hide = %q, want empty", got)
	}
	show.Set(true)
	if got := page.Text("p"); got != "visible" {
		t.Errorf("text after show = %q, want %q", got, "visible")
	}
}
