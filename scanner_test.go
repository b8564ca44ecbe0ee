package zenith

import (
	"testing"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

func scanMarkup(t *testing.T, markup string) ([]Binding, []scanIssue) {
	t.Helper()
	container := dom.Element("div")
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	for _, n := range nodes {
		dom.Append(container, n)
	}
	return scan(container)
}

func TestScanClassifiesMarkers(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []BindingKind
	}{
		{
			"value placeholder",
			`<p><!--zen:expr_3--></p>`,
			[]BindingKind{KindValue},
		},
		{
			"attribute marker",
			`<p data-zen-attr-class="1">x</p>`,
			[]BindingKind{KindAttribute},
		},
		{
			"event marker",
			`<button data-zen-onclick="save">x</button>`,
			[]BindingKind{KindEvent},
		},
		{
			"loop template",
			`<template data-zen-each="0" data-zen-item="x"><span></span></template>`,
			[]BindingKind{KindLoop},
		},
		{
			"component host",
			`<div data-zen-component="widget"></div>`,
			[]BindingKind{KindComponent},
		},
		{
			"plain comment ignored",
			`<p><!-- just a note --></p>`,
			nil,
		},
		{
			"mixed document order",
			`<p data-zen-attr-id="1" data-zen-onclick="go"><!--zen:expr_0--></p>`,
			[]BindingKind{KindAttribute, KindEvent, KindValue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bindings, issues := scanMarkup(t, tt.markup)
			if len(issues) != 0 {
				t.Fatalf("unexpected issues: %v", issues)
			}
			if len(bindings) != len(tt.want) {
				t.Fatalf("binding count = %d, want %d", len(bindings), len(tt.want))
			}
			for i, b := range bindings {
				if b.Kind != tt.want[i] {
					t.Errorf("binding %d kind = %v, want %v", i, b.Kind, tt.want[i])
				}
			}
		})
	}
}

func TestScanMalformedMarkers(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"non-numeric placeholder", `<p><!--zen:expr_abc--></p>`},
		{"negative placeholder", `<p><!--zen:expr_-1--></p>`},
		{"non-numeric attr id", `<p data-zen-attr-class="x">x</p>`},
		{"empty event handler", `<button data-zen-onclick="">x</button>`},
		{"loop without item var", `<template data-zen-each="0"><span></span></template>`},
		{"loop with bad id", `<template data-zen-each="zero" data-zen-item="x"><span></span></template>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bindings, issues := scanMarkup(t, tt.markup)
			if len(bindings) != 0 {
				t.Errorf("malformed marker produced bindings: %v", bindings)
			}
			if len(issues) != 1 {
				t.Fatalf("issue count = %d, want 1", len(issues))
			}
			if !IsMalformedMarker(issues[0].err) {
				t.Errorf("issue error = %v, want malformed-marker", issues[0].err)
			}
		})
	}
}

func TestScanMalformedMarkerDoesNotAbortSiblings(t *testing.T) {
	bindings, issues := scanMarkup(t, `<p><!--zen:expr_bad--><!--zen:expr_2--></p>`)
	if len(issues) != 1 {
		t.Fatalf("issue count = %d, want 1", len(issues))
	}
	if len(bindings) != 1 || bindings[0].ExprID != 2 {
		t.Errorf("sibling marker lost: %v", bindings)
	}
}

func TestScanStopsAtComponentHost(t *testing.T) {
	markup := `<div data-zen-component="island">` +
		`<p data-zen-attr-class="0"><!--zen:expr_1--></p>` +
		`</div>`
	bindings, issues := scanMarkup(t, markup)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if len(bindings) != 1 || bindings[0].Kind != KindComponent {
		t.Errorf("component subtree leaked bindings: %v", bindings)
	}
}

func TestScanStopsAtLoopTemplate(t *testing.T) {
	markup := `<template data-zen-each="0" data-zen-item="x">` +
		`<span><!--zen:expr_1--></span>` +
		`</template>`
	bindings, issues := scanMarkup(t, markup)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if len(bindings) != 1 || bindings[0].Kind != KindLoop {
		t.Errorf("template contents leaked bindings: %v", bindings)
	}
	if bindings[0].ItemVar != "x" {
		t.Errorf("item var = %q, want %q", bindings[0].ItemVar, "x")
	}
}

func TestScanSkipsHydratedElementButDescends(t *testing.T) {
	markup := `<div data-zen-hydrated="" data-zen-attr-class="0">` +
		`<p data-zen-attr-id="1">x</p>` +
		`</div>`
	bindings, issues := scanMarkup(t, markup)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if len(bindings) != 1 {
		t.Fatalf("binding count = %d, want 1 (child only)", len(bindings))
	}
	if bindings[0].Attr != "id" {
		t.Errorf("surviving binding = %q, want the child's id marker", bindings[0].Attr)
	}
}

func TestScanLoopCapturesIndexVar(t *testing.T) {
	markup := `<template data-zen-each="5" data-zen-item="row" data-zen-index="n"></template>`
	bindings, _ := scanMarkup(t, markup)
	if len(bindings) != 1 {
		t.Fatalf("binding count = %d, want 1", len(bindings))
	}
	b := bindings[0]
	if b.ExprID != 5 || b.ItemVar != "row" || b.IndexVar != "n" {
		t.Errorf("loop binding = %+v", b)
	}
}

func TestBindingKindString(t *testing.T) {
	kinds := map[BindingKind]string{
		KindValue:       "value",
		KindAttribute:   "attribute",
		KindEvent:       "event",
		KindLoop:        "loop",
		KindComponent:   "component",
		BindingKind(99): "unknown",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("BindingKind(%d).String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
