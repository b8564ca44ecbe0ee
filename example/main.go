// Command example hydrates a server-rendered page, drives it with synthetic
// events, and prints the markup after each interaction.
package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	zenith "github.com/zenithbuild/zenith-runtime"
	"github.com/zenithbuild/zenith-runtime/lib/dom"
	"github.com/zenithbuild/zenith-runtime/lib/exprs"
	"github.com/zenithbuild/zenith-runtime/lib/reactive"
)

// page is what a build step would emit: static markup with hydration
// markers in place of the dynamic parts.
const page = `
<main>
  <h1>Tasks (<!--zen:expr_0-->)</h1>
  <button data-zen-onclick="add" data-zen-attr-disabled="1">Add task</button>
  <template data-zen-each="2" data-zen-item="task" data-zen-index="i">
    <li><!--zen:expr_3--></li>
  </template>
  <footer data-zen-component="status"></footer>
</main>`

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	rt := zenith.NewRuntime(zenith.WithLogger(logger))

	tasks := reactive.NewSignal([]any{"write docs", "ship release"})
	full := reactive.NewMemo(func() bool {
		return len(tasks.Get()) >= 4
	})

	rt.DefineExpressions([]zenith.ExprFunc{
		func(s zenith.Scope) (any, error) {
			return len(tasks.Get()), nil
		},
		func(s zenith.Scope) (any, error) {
			return full.Get(), nil
		},
		func(s zenith.Scope) (any, error) {
			return tasks.Get(), nil
		},
		zenith.Expr(exprs.MustCompile(`string(i + 1) + ". " + task`)),
	})

	rt.DefineHandler("add", func(e *dom.Event, _ zenith.Scope) {
		tasks.Update(func(list []any) []any {
			next := append(append([]any{}, list...), fmt.Sprintf("task %d", len(list)+1))
			return next
		})
	})

	rt.DefineComponent("status", func(in *zenith.Instance, _ map[string]any, element *html.Node) error {
		in.Effect(func() {
			dom.ClearChildren(element)
			dom.Append(element, dom.Text(fmt.Sprintf("%d task(s) tracked", len(tasks.Get()))))
		})
		in.OnMount(func() func() {
			logger.Info("status footer mounted")
			return func() { logger.Info("status footer unmounted") }
		})
		return nil
	})

	container := dom.Element("div")
	nodes, err := dom.ParseFragment(page)
	if err != nil {
		log.Fatal(err)
	}
	for _, n := range nodes {
		dom.Append(container, n)
	}

	session, err := rt.Hydrate(nil, container)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Unmount()

	fmt.Println("--- after hydration ---")
	fmt.Println(dom.RenderChildren(container))

	button := findButton(container)
	for i := 0; i < 2; i++ {
		session.Dispatch(button, "click", nil)
	}

	fmt.Println("--- after two clicks ---")
	fmt.Println(dom.RenderChildren(container))
}

func findButton(root *html.Node) *html.Node {
	var button *html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if button == nil && dom.IsElement(n) && n.Data == "button" {
			button = n
		}
		return button == nil
	})
	return button
}
