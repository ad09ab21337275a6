package testutils

import (
	"path/filepath"
	"testing"

	"github.com/nfrund/starbeam/internal/config"
)

// ConfigForTests sets a complete test environment with t.Setenv and returns
// the parsed config. Storage goes to a JSON file in a per-test directory.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	env := map[string]string{
		"STARBEAM_ADDR":       "127.0.0.1:0",
		"SESSION_SECRET":      "test-session-secret-0123456789",
		"SECURE_COOKIES":      "false",
		"STORAGE_DRIVER":      "file",
		"STORAGE_PATH":        filepath.Join(t.TempDir(), "store.json"),
		"BRIDGE_CALL_TIMEOUT": "2s",
		"TELEGRAM_BOT_TOKEN":  "",
		"LOG_LEVEL":           "debug",
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}
	return cfg
}
