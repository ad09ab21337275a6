package pages

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Landing is the public page outside Telegram. It only points at the bot.
func Landing(webAppURL string) g.Node {
	return h.Main(
		h.Class("page"),
		h.H1(h.Class("title"), g.Text("Welcome to Starbeam")),
		h.Div(
			h.Class("actions"),
			h.A(
				h.Href(webAppURL),
				h.Class("button"),
				h.Aria("label", "Open Starbeam application in Telegram"),
				h.Rel("noopener noreferrer"),
				g.Text("Open Webapp in Telegram"),
			),
		),
	)
}
