package pages

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/nfrund/starbeam/internal/launch"
	"github.com/nfrund/starbeam/internal/view"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestLanding(t *testing.T) {
	out := render(t, Landing("https://t.me/StarBeamBot/wallet"))

	assert.Contains(t, out, "Welcome to Starbeam")
	assert.Contains(t, out, `href="https://t.me/StarBeamBot/wallet"`)
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.Contains(t, out, `aria-label="Open Starbeam application in Telegram"`)
	assert.Contains(t, out, "Open Webapp in Telegram")
}

func TestLoading(t *testing.T) {
	out := render(t, Loading())

	assert.Contains(t, out, `id="app"`)
	assert.Contains(t, out, "Loading...")
	assert.Contains(t, out, `hx-post="/mini-app/launch"`)
	assert.NotContains(t, out, "Create Account")
}

func TestReady_NoAccount(t *testing.T) {
	out := render(t, Ready(view.MiniAppState{}))

	assert.Contains(t, out, "Create Account")
	assert.Contains(t, out, `hx-post="/mini-app/account"`)
	assert.NotContains(t, out, "Delete Account")
	assert.NotContains(t, out, "Balance")
	assert.Contains(t, out, "User: Not available")
	assert.Contains(t, out, "ID: Not available")
	assert.Contains(t, out, "Has Account: No")
}

func TestReady_WithAccount(t *testing.T) {
	lc := launch.Parse(`user=%7B%22id%22%3A42%2C%22first_name%22%3A%22A%22%2C%22last_name%22%3A%22B%22%7D`)
	out := render(t, Ready(view.MiniAppState{
		Launch:     lc,
		HasAccount: true,
		PublicKey:  "GPUBLIC",
		Balance:    "0.00",
	}))

	assert.Contains(t, out, "Balance")
	assert.Contains(t, out, "0.00")
	assert.Contains(t, out, "Account: GPUBLIC")
	assert.Contains(t, out, `hx-delete="/mini-app/account"`)
	assert.NotContains(t, out, "Create Account")
	assert.Contains(t, out, "User: A B")
	assert.Contains(t, out, "ID: 42")
	assert.Contains(t, out, "Has Account: Yes")
}

func TestError(t *testing.T) {
	out := render(t, Error("Biometry access denied"))

	assert.Contains(t, out, "Error: Biometry access denied")
	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "Dismiss")
	assert.Contains(t, out, `hx-get="/mini-app/view"`)
}

func TestView(t *testing.T) {
	assert.Contains(t, render(t, View(view.MiniAppState{Error: "Authentication failed"})), "Error: Authentication failed")
	assert.Contains(t, render(t, View(view.MiniAppState{})), "Create Account")
}
