package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/starbeam/internal/app"
	"github.com/nfrund/starbeam/internal/testutils"
)

func TestHTTPErrorHandler_WithStackTrace(t *testing.T) {
	e := echo.New()

	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuffer, &slog.HandlerOptions{AddSource: true}))
	originalLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(originalLogger)

	setupErrorHandling(e)

	e.GET("/test-unhandled-error", func(c echo.Context) error {
		return errors.New("a deliberate unhandled error occurred")
	})

	req := httptest.NewRequest(http.MethodGet, "/test-unhandled-error", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code, "Expected a 500 Internal Server Error response")

	logOutput := logBuffer.String()
	assert.Contains(t, logOutput, "Internal Server Error (Unhandled)", "Log message should indicate an unhandled error")
	assert.Contains(t, logOutput, "error=\"a deliberate unhandled error occurred\"", "Log should contain the original error message")
	assert.Contains(t, logOutput, "stack_trace=", "Log must contain the stack_trace field")
	assert.Contains(t, logOutput, "runtime/debug/stack.go", "Stack trace should originate from the debug package")
	assert.Contains(t, logOutput, "internal/server/server_test.go", "Stack trace should point back to this test file")
	assert.NotContains(t, rec.Body.String(), "deliberate", "internal errors are not leaked")
}

func TestHTTPErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	setupErrorHandling(e)
	e.GET("/gone", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid launch data")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gone", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid launch data", rec.Body.String())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	testutils.CaptureLogs(t)
	cfg := testutils.ConfigForTests(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	i, res, err := app.NewInjector(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	s, err := New(cfg, i, app.NewModules())
	require.NoError(t, err)
	require.NoError(t, s.RegisterRoutes(ctx))
	return s
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{path: "/", status: http.StatusOK, contains: "Welcome to Starbeam"},
		{path: "/health", status: http.StatusOK, contains: "OK"},
		{path: "/mini-app", status: http.StatusOK, contains: "Loading..."},
		{path: "/static/bridge.js", status: http.StatusOK, contains: "BiometricManager"},
		{path: "/mini-app/view", status: http.StatusUnauthorized},
		{path: "/nope", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		})
	}
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.E.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
