package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/starbeam/internal/view"
	"github.com/nfrund/starbeam/web/src/templates/layouts"
	"github.com/nfrund/starbeam/web/src/templates/pages"
)

// HomeHandler serves the public landing page.
type HomeHandler struct {
	webAppURL string
}

// NewHomeHandler creates a HomeHandler linking to webAppURL.
func NewHomeHandler(webAppURL string) *HomeHandler {
	return &HomeHandler{webAppURL: webAppURL}
}

// HomeGet handles the GET request for the home page.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	content := view.AdaptGomponentToTempl(pages.Landing(h.webAppURL))
	return c.Render(http.StatusOK, "", layouts.Base("", false, content))
}
