package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/nfrund/starbeam/internal/biometry/device"
	"github.com/nfrund/starbeam/internal/keypair"
	"github.com/nfrund/starbeam/internal/testutils"
)

type scriptedPrompter struct {
	interactive bool
	confirm     bool
	typed       string
}

func (p *scriptedPrompter) Interactive() bool { return p.interactive }

func (p *scriptedPrompter) Confirm(string) (bool, error) { return p.confirm, nil }

func (p *scriptedPrompter) Verify(_, want string) (bool, error) { return p.typed == want, nil }

type harness struct {
	t        *testing.T
	path     string
	prompter *scriptedPrompter
	gen      *testutils.FakeGenerator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	keyring.MockInit()

	h := &harness{
		t:        t,
		path:     filepath.Join(t.TempDir(), "starbeam.db"),
		prompter: &scriptedPrompter{interactive: true, confirm: true, typed: "alice"},
		gen:      testutils.NewFakeGenerator(),
	}

	origPrompter, origGen := newPrompter, newGenerator
	newPrompter = func(*cobra.Command) device.Prompter { return h.prompter }
	newGenerator = func() keypair.Generator { return h.gen }
	t.Cleanup(func() {
		newPrompter, newGenerator = origPrompter, origGen
		assumeYes = false
		eventsFormat = "table"
	})
	return h
}

// run executes the root command with the harness storage and namespace.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args,
		"--namespace", "alice",
		"--storage-driver", "sqlite",
		"--storage-path", h.path,
		"--log-level", "error",
	))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("version")
	require.NoError(t, err)
	assert.Equal(t, "starbeam-cli v"+version+"\n", out)
}

func TestCreateStatusDelete(t *testing.T) {
	h := newHarness(t)
	pk := h.gen.Pair.PublicKey

	out, err := h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "not in keyring")

	out, err = h.run("create")
	require.NoError(t, err)
	assert.Equal(t, "Created account "+pk+"\n", out)

	secret, err := keyring.Get(device.Service, "alice")
	require.NoError(t, err)
	assert.Equal(t, h.gen.Pair.Secret, secret)

	out, err = h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, pk)
	assert.Contains(t, out, "in keyring")

	out, err = h.run("create")
	require.Error(t, err)
	assert.Contains(t, out, "An account already exists on this device")

	out, err = h.run("delete", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Account deleted")

	_, err = keyring.Get(device.Service, "alice")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestCreate_Refused(t *testing.T) {
	tests := []struct {
		name     string
		prompter scriptedPrompter
		want     string
	}{
		{"access denied", scriptedPrompter{interactive: true}, "Biometry access denied"},
		{"wrong confirmation", scriptedPrompter{interactive: true, confirm: true, typed: "bob"}, "Authentication failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			*h.prompter = tt.prompter

			out, err := h.run("create")
			require.Error(t, err)
			assert.Contains(t, out, tt.want)

			out, err = h.run("status")
			require.NoError(t, err)
			assert.Contains(t, out, "none")
		})
	}
}

func TestDelete_Confirmation(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("create")
	require.NoError(t, err)

	h.prompter.confirm = false
	out, err := h.run("delete")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	h.prompter.interactive = false
	_, err = h.run("delete")
	assert.ErrorContains(t, err, "pass --yes")

	out, err = h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, h.gen.Pair.PublicKey)
}

func TestEvents(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("events")
	require.NoError(t, err)
	assert.Contains(t, out, "account.created")
	assert.Contains(t, out, "account.deleted")

	out, err = h.run("events", "--format", "json")
	require.NoError(t, err)
	var decoded struct {
		Events []eventDisplay `json:"events"`
		Count  int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2, decoded.Count)

	_, err = h.run("events", "--format", "xml")
	assert.Error(t, err)
}

func TestUnknownStorageDriver(t *testing.T) {
	newHarness(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"status", "--storage-driver", "postgres"})
	t.Cleanup(func() { storageDriver = "sqlite" })

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "unknown storage driver")
}
