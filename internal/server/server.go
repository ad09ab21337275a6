package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"

	"github.com/nfrund/starbeam/internal/config"
	"github.com/nfrund/starbeam/internal/handlers"
	"github.com/nfrund/starbeam/internal/middleware"
	"github.com/nfrund/starbeam/internal/module"
	"github.com/nfrund/starbeam/internal/rendering"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	Injector do.Injector
	modules  []module.Module
}

// New builds the echo instance and registers every module's services.
// Routes are added by RegisterRoutes.
func New(cfg *config.Config, i do.Injector, modules []module.Module) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = do.MustInvoke[rendering.Renderer](i)
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(session.Middleware(middleware.NewSessionStore(cfg.SessionSecret, cfg.SecureCookies)))
	e.Use(middleware.Device())
	e.Use(middleware.Logger)
	e.Use(requestLogger())

	for _, m := range modules {
		if err := m.Register(i); err != nil {
			return nil, fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}

	return &Server{E: e, Cfg: cfg, Injector: i, modules: modules}, nil
}

// requestLogger logs one line per request through the request logger.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger := middleware.FromContext(c.Request().Context())
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	})
}

// setupErrorHandling installs the central error handler. HTTP errors are
// answered as they are; anything else is logged with a stack trace and
// answered with a bare 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			msg := fmt.Sprint(he.Message)
			if he.Internal != nil {
				middleware.FromContext(c.Request().Context()).Debug("HTTP error", "status", he.Code, "error", he.Internal)
			}
			_ = c.String(he.Code, msg)
			return
		}

		slog.Default().Error("Internal Server Error (Unhandled)",
			"error", err.Error(),
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"stack_trace", string(debug.Stack()),
		)
		_ = c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// Boot runs every module's Boot with its route group.
func (s *Server) Boot(ctx context.Context) error {
	for _, m := range s.modules {
		if err := m.Boot(ctx, s.E.Group("/"+m.Name()), s.Injector); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
	}
	return nil
}
