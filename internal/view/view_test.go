package view

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "0.00", FormatBalance(PlaceholderBalance))
	assert.Equal(t, "12.30", FormatBalance(12.3))
	assert.Equal(t, "1,234.50", FormatBalance(1234.5))
	assert.Equal(t, "1.234,50", formatAmount(language.German, 1234.5))
}

func TestHasAccountLabel(t *testing.T) {
	assert.Equal(t, "Yes", MiniAppState{HasAccount: true}.HasAccountLabel())
	assert.Equal(t, "No", MiniAppState{}.HasAccountLabel())
}

type ctxKey struct{}

func TestAdapters(t *testing.T) {
	inner := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v, _ := ctx.Value(ctxKey{}).(string)
		_, err := io.WriteString(w, "<i>"+v+"</i>")
		return err
	})
	ctx := context.WithValue(context.Background(), ctxKey{}, "carried")

	node := html.Div(AdaptTemplToGomponent(ctx, inner))
	outer := AdaptGomponentToTempl(node)

	var buf bytes.Buffer
	require.NoError(t, outer.Render(context.Background(), &buf))
	assert.Equal(t, "<div><i>carried</i></div>", buf.String())

	buf.Reset()
	require.NoError(t, (&TemplToGomponentAdapter{Component: inner}).Render(&buf))
	assert.Equal(t, "<i></i>", buf.String())

	buf.Reset()
	require.NoError(t, AdaptGomponentToTempl(g.Text("a<b")).Render(context.Background(), &buf))
	assert.Equal(t, "a&lt;b", buf.String())
}
