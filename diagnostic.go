package zenith

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	gohtml "golang.org/x/net/html"

	"github.com/zenithbuild/zenith-runtime/lib/dom"
)

// DiagnosticView returns the built-in error view as a templ component:
// message, context, and stack (when present), all escaped. Hosts that want
// their own look register a component under ErrorComponentName instead.
func DiagnosticView(err error, ctx ErrorContext) templ.Component {
	return templ.ComponentFunc(func(c context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div class="zenith-error" role="alert">`)
		sb.WriteString(`<p class="zenith-error-message">`)
		sb.WriteString(html.EscapeString(err.Error()))
		sb.WriteString(`</p>`)

		sb.WriteString(`<dl class="zenith-error-context">`)
		if ctx.Activity != "" {
			writeContextRow(&sb, "activity", ctx.Activity)
		}
		if ctx.ExprID >= 0 {
			writeContextRow(&sb, "expression", fmt.Sprint(ctx.ExprID))
		}
		if ctx.Component != "" {
			writeContextRow(&sb, "component", ctx.Component)
		}
		sb.WriteString(`</dl>`)

		if ctx.Stack != "" {
			sb.WriteString(`<pre class="zenith-error-stack">`)
			sb.WriteString(html.EscapeString(ctx.Stack))
			sb.WriteString(`</pre>`)
		}
		sb.WriteString(`</div>`)

		_, werr := io.WriteString(w, sb.String())
		return werr
	})
}

func writeContextRow(sb *strings.Builder, name, value string) {
	sb.WriteString(`<dt>`)
	sb.WriteString(html.EscapeString(name))
	sb.WriteString(`</dt><dd>`)
	sb.WriteString(html.EscapeString(value))
	sb.WriteString(`</dd>`)
}

// renderErrorView replaces the session root's content with the error view:
// a registered fallback component when one exists, the built-in diagnostic
// otherwise. Failures inside the error path are logged and dropped - the
// re-entrancy guard in contain already prevents a second render.
func (s *Session) renderErrorView(ctx ErrorContext, err error) {
	props := map[string]any{
		"message":   err.Error(),
		"activity":  ctx.Activity,
		"component": ctx.Component,
		"stack":     ctx.Stack,
	}

	if factory, ok := s.rt.component(ErrorComponentName); ok {
		host := dom.Element("div")
		dom.SetAttr(host, attrHydrated, "")
		in := newInstance(s.rt, s, ErrorComponentName, host)
		if ferr := factory(in, props, host); ferr != nil {
			s.rt.logger.Warn("error fallback component failed, using built-in diagnostic",
				zap.Error(ferr),
			)
		} else {
			s.replaceRootContent([]*gohtml.Node{host})
			in.Mount()
			return
		}
	}

	var buf strings.Builder
	if rerr := DiagnosticView(err, ctx).Render(context.Background(), &buf); rerr != nil {
		s.rt.logger.Warn("diagnostic render failed", zap.Error(rerr))
		return
	}
	nodes, perr := dom.ParseFragment(buf.String())
	if perr != nil {
		s.rt.logger.Warn("diagnostic parse failed", zap.Error(perr))
		return
	}
	s.replaceRootContent(nodes)
}

func (s *Session) replaceRootContent(nodes []*gohtml.Node) {
	s.listeners.RemoveSubtree(s.root)
	dom.ClearChildren(s.root)
	for _, n := range nodes {
		dom.Append(s.root, n)
	}
}

// renderBuiltinFallback renders the built-in diagnostic into the host of a
// reserved error-component marker, from the props the marker carried.
func renderBuiltinFallback(host *gohtml.Node, props map[string]any) {
	msg, _ := props["message"].(string)
	if msg == "" {
		msg = "unknown error"
	}
	ctx := ErrorContext{ExprID: -1}
	if v, ok := props["activity"].(string); ok {
		ctx.Activity = v
	}
	if v, ok := props["component"].(string); ok {
		ctx.Component = v
	}
	if v, ok := props["stack"].(string); ok {
		ctx.Stack = v
	}

	var buf strings.Builder
	if err := DiagnosticView(fmt.Errorf("%s", msg), ctx).Render(context.Background(), &buf); err != nil {
		return
	}
	nodes, err := dom.ParseFragment(buf.String())
	if err != nil {
		return
	}
	dom.ClearChildren(host)
	for _, n := range nodes {
		dom.Append(host, n)
	}
}
