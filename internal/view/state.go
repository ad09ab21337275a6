// Package view holds the state the mini-app pages render from and the glue
// between gomponents and templ.
package view

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/nfrund/starbeam/internal/launch"
)

// PlaceholderBalance is shown until balances are fetched from the network.
const PlaceholderBalance = 0.0

// MiniAppState is everything the mini-app view needs for one render. It is
// rebuilt on every request.
type MiniAppState struct {
	Launch     launch.Context
	HasAccount bool
	PublicKey  string
	Balance    string
	Error      string
}

// FormatBalance renders an amount with two decimals and English digit
// grouping.
func FormatBalance(amount float64) string {
	return formatAmount(language.English, amount)
}

func formatAmount(tag language.Tag, amount float64) string {
	return message.NewPrinter(tag).Sprint(number.Decimal(amount, number.Scale(2)))
}

// HasAccountLabel is the debug block's "Has Account" value.
func (s MiniAppState) HasAccountLabel() string {
	if s.HasAccount {
		return "Yes"
	}
	return "No"
}
