package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// GomponentToTemplAdapter lets a gomponents.Node render inside a templ
// layout.
type GomponentToTemplAdapter struct {
	Node gomponents.Node
}

// Render implements templ.Component.
func (a *GomponentToTemplAdapter) Render(_ context.Context, w io.Writer) error {
	return a.Node.Render(w)
}

// AdaptGomponentToTempl wraps node as a templ.Component.
func AdaptGomponentToTempl(node gomponents.Node) templ.Component {
	return &GomponentToTemplAdapter{Node: node}
}

// TemplToGomponentAdapter lets a templ.Component render inside a gomponents
// tree. gomponents has no context, so the adapter carries the one the
// component should see.
type TemplToGomponentAdapter struct {
	Ctx       context.Context
	Component templ.Component
}

// Render implements gomponents.Node.
func (a *TemplToGomponentAdapter) Render(w io.Writer) error {
	ctx := a.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return a.Component.Render(ctx, w)
}

// AdaptTemplToGomponent wraps component as a gomponents.Node rendered with ctx.
func AdaptTemplToGomponent(ctx context.Context, component templ.Component) gomponents.Node {
	return &TemplToGomponentAdapter{Ctx: ctx, Component: component}
}
