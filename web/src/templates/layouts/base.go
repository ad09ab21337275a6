// Package layouts holds the document shell pages render into.
package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/starbeam/internal/view"
)

// Script sources loaded by every page.
const (
	TelegramScript = "https://telegram.org/js/telegram-web-app.js"
	HTMXScript     = "https://unpkg.com/htmx.org@2.0.4"
)

// Base wraps body in the HTML document. withBridge adds the Telegram SDK and
// the biometry bridge, which only the mini-app needs.
func Base(title string, withBridge bool, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return h.Doctype(
			h.HTML(
				h.Lang("en"),
				h.Head(
					h.Meta(h.Charset("utf-8")),
					h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
					h.TitleEl(g.Text(CalculateTitle(title))),
					h.Link(h.Rel("stylesheet"), h.Href("/static/starbeam.css")),
					h.Script(h.Src(HTMXScript)),
					g.If(withBridge, h.Script(h.Src(TelegramScript))),
					g.If(withBridge, h.Script(h.Src("/static/bridge.js"), h.Defer())),
				),
				h.Body(
					view.AdaptTemplToGomponent(ctx, body),
				),
			),
		).Render(w)
	})
}
