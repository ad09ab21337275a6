package middleware

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

type contextKey string

const loggerKey = contextKey("logger")

// Logger injects a request-scoped logger into the request context, tagged
// with the request id and, once Device has run, the device id. Place it
// after the RequestID middleware.
func Logger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		attrs := []any{"request_id", c.Response().Header().Get(echo.HeaderXRequestID)}
		if id := DeviceID(c); id != "" {
			attrs = append(attrs, "device_id", id)
		}
		requestLogger := slog.Default().With(attrs...)

		ctx := context.WithValue(c.Request().Context(), loggerKey, requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// FromContext returns the request logger, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
