package pages

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/starbeam/internal/view"
)

// AppID is the element every mini-app fragment replaces.
const AppID = "app"

// Mini-app endpoints the fragments talk to.
const (
	LaunchPath  = "/mini-app/launch"
	ViewPath    = "/mini-app/view"
	AccountPath = "/mini-app/account"
)

// LaunchEvent is dispatched on body by bridge.js once the Telegram SDK is
// ready and the bridge socket is open.
const LaunchEvent = "starbeam:launch"

// swapApp makes a control replace the whole app fragment with the response.
func swapApp() g.Node {
	return g.Group([]g.Node{hx.Target("#" + AppID), hx.Swap("outerHTML")})
}

// Loading is the shell rendered before the client is interactive. Nothing
// account related renders until bridge.js posts the launch data.
func Loading() g.Node {
	return h.Div(
		h.ID(AppID),
		h.Class("page"),
		hx.Post(LaunchPath),
		hx.Trigger(LaunchEvent+" from:body"),
		hx.Vals(`js:{init_data: window.starbeamInitData ? window.starbeamInitData() : ""}`),
		hx.Swap("outerHTML"),
		g.Text("Loading..."),
	)
}

// View renders the fragment for s: Error when it carries a message, Ready
// otherwise.
func View(s view.MiniAppState) g.Node {
	if s.Error != "" {
		return Error(s.Error)
	}
	return Ready(s)
}

// Ready renders the create call to action or the account summary, followed
// by the debug block.
func Ready(s view.MiniAppState) g.Node {
	return h.Div(
		h.ID(AppID),
		h.Class("page"),
		h.Main(
			h.Class("stack"),
			h.H1(h.Class("title"), g.Text("Starbeam")),
			g.If(!s.HasAccount, createAction()),
			g.If(s.HasAccount, summary(s)),
			debugBlock(s),
		),
	)
}

func createAction() g.Node {
	return h.Button(
		h.Type("button"),
		h.Class("button primary"),
		hx.Post(AccountPath),
		swapApp(),
		g.Text("Create Account"),
	)
}

func summary(s view.MiniAppState) g.Node {
	return h.Div(
		h.Class("stack"),
		h.Div(h.Class("label"), g.Text("Balance")),
		h.Div(h.Class("balance"), g.Text(s.Balance)),
		h.Div(h.Class("public-key"), g.Text("Account: "+s.PublicKey)),
		h.Button(
			h.Type("button"),
			h.Class("button danger"),
			hx.Delete(AccountPath),
			swapApp(),
			g.Text("Delete Account"),
		),
	)
}

func debugBlock(s view.MiniAppState) g.Node {
	return h.Div(
		h.Class("debug"),
		h.Div(g.Text("User: "+s.Launch.UserLabel())),
		h.Div(g.Text("ID: "+s.Launch.IDLabel())),
		h.Div(g.Text("Has Account: "+s.HasAccountLabel())),
	)
}

// Error shows a single failure message. Dismiss re-renders Ready from
// storage so the user can retry.
func Error(message string) g.Node {
	return h.Div(
		h.ID(AppID),
		h.Class("page"),
		h.Div(
			h.Class("error"),
			g.Attr("role", "alert"),
			g.Text("Error: "+message),
		),
		h.Button(
			h.Type("button"),
			h.Class("button"),
			hx.Get(ViewPath),
			swapApp(),
			g.Text("Dismiss"),
		),
	)
}
