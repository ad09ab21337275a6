package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/starbeam/internal/handlers"
	"github.com/nfrund/starbeam/web"
)

// RegisterRoutes sets up the top-level routes and boots the modules.
func (s *Server) RegisterRoutes(ctx context.Context) error {
	homeHandler := handlers.NewHomeHandler(s.Cfg.WebAppURL)

	s.E.GET("/", homeHandler.HomeGet)
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	return s.Boot(ctx)
}
