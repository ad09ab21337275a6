// Package launch reads the launch context Telegram injects into a Mini App.
//
// Telegram passes the launch data as a URL-encoded query string (the value of
// Telegram.WebApp.initData). Parse extracts the fields the wallet displays;
// Validate checks the data was signed by the bot the server runs as.
package launch

import (
	"strconv"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// NotAvailable is shown in place of launch fields the host did not provide.
const NotAvailable = "Not available"

// Context is the read-only view of the launching user.
type Context struct {
	UserID      *int64
	DisplayName *string
}

// Parse extracts the launch context from raw init data. It never fails:
// malformed input yields a Context with absent fields.
func Parse(initData string) Context {
	data, err := initdata.Parse(initData)
	if err != nil {
		return Context{}
	}
	return FromUser(data.User)
}

// FromUser builds a Context from a decoded Telegram user.
func FromUser(u initdata.User) Context {
	var ctx Context
	if u.ID != 0 {
		id := u.ID
		ctx.UserID = &id
	}
	if name := displayName(u.FirstName, u.LastName); name != "" {
		ctx.DisplayName = &name
	}
	return ctx
}

func displayName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// UserLabel is the display name, or NotAvailable.
func (c Context) UserLabel() string {
	if c.DisplayName == nil || *c.DisplayName == "" {
		return NotAvailable
	}
	return *c.DisplayName
}

// IDLabel is the decimal user id, or NotAvailable.
func (c Context) IDLabel() string {
	if c.UserID == nil || *c.UserID == 0 {
		return NotAvailable
	}
	return strconv.FormatInt(*c.UserID, 10)
}
