// Package rendering renders templ components and gomponents nodes through
// echo.
package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders any supported component type.
type Renderer interface {
	// RenderComponent renders a component to bytes, e.g. for an htmx fragment.
	RenderComponent(ctx context.Context, component any) ([]byte, error)
	echo.Renderer
}

// UniversalRenderer renders templ.Component values and anything with a
// Render(io.Writer) error method, which covers gomponents.Node.
type UniversalRenderer struct{}

var _ Renderer = (*UniversalRenderer)(nil)

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

type gomponentNode interface {
	Render(w io.Writer) error
}

func (r *UniversalRenderer) render(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type %T", component)
	}
}

// RenderComponent implements Renderer.
func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("render component: %w", err)
	}
	return buf.Bytes(), nil
}

// Render implements echo.Renderer for c.Render(status, "", component). The
// name is ignored.
func (r *UniversalRenderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	return r.render(c.Request().Context(), data, w)
}
