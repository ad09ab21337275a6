package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/starbeam/internal/account"
	"github.com/nfrund/starbeam/internal/biometry"
	"github.com/nfrund/starbeam/internal/launch"
	"github.com/nfrund/starbeam/internal/middleware"
	"github.com/nfrund/starbeam/internal/view"
	"github.com/nfrund/starbeam/web/src/templates/layouts"
	"github.com/nfrund/starbeam/web/src/templates/pages"
)

// Bridges hands out the biometry manager of a device and accepts the
// device's bridge socket.
type Bridges interface {
	Manager(device string) biometry.Manager
	Serve(ctx context.Context, w http.ResponseWriter, r *http.Request, device string) error
}

// MiniAppOptions configures launch data validation.
type MiniAppOptions struct {
	// BotToken enables initData signature checks when set.
	BotToken       string
	InitDataMaxAge time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// MiniAppHandler serves the Telegram Mini App.
type MiniAppHandler struct {
	accounts *account.Service
	bridges  Bridges
	opts     MiniAppOptions
}

// NewMiniAppHandler creates a MiniAppHandler.
func NewMiniAppHandler(accounts *account.Service, bridges Bridges, opts MiniAppOptions) *MiniAppHandler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MiniAppHandler{accounts: accounts, bridges: bridges, opts: opts}
}

// Mount registers the mini-app routes on g. mutations wrap the account
// create and delete endpoints, typically with a rate limiter.
func (h *MiniAppHandler) Mount(g *echo.Group, mutations ...echo.MiddlewareFunc) {
	launched := middleware.RequireLaunch()
	guarded := append([]echo.MiddlewareFunc{launched}, mutations...)

	g.GET("", h.Shell)
	g.POST("/launch", h.Launch)
	g.GET("/view", h.View, launched)
	g.POST("/account", h.CreateAccount, guarded...)
	g.DELETE("/account", h.DeleteAccount, guarded...)
	g.GET("/bridge", h.Bridge)
}

// Shell renders the page in its Loading state.
func (h *MiniAppHandler) Shell(c echo.Context) error {
	content := view.AdaptGomponentToTempl(pages.Loading())
	return c.Render(http.StatusOK, "", layouts.Base("Wallet", true, content))
}

// Launch records the Telegram launch data in the session and renders Ready.
func (h *MiniAppHandler) Launch(c echo.Context) error {
	var req LaunchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid launch request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid launch request")
	}

	if h.opts.BotToken != "" {
		err := launch.Validate(req.InitData, h.opts.BotToken, h.opts.InitDataMaxAge, h.opts.Now())
		if err != nil {
			middleware.FromContext(c.Request().Context()).Warn("rejected launch data", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid launch data")
		}
	}

	if err := middleware.SaveLaunch(c, req.InitData); err != nil {
		return err
	}
	return h.render(c, "")
}

// View re-renders Ready from storage. The error fragment's Dismiss uses it.
func (h *MiniAppHandler) View(c echo.Context) error {
	return h.render(c, "")
}

// CreateAccount runs the biometry gate on the device and creates the account.
func (h *MiniAppHandler) CreateAccount(c echo.Context) error {
	ctx := c.Request().Context()
	device := middleware.DeviceID(c)

	if _, err := h.accounts.Create(ctx, device, h.bridges.Manager(device)); err != nil {
		logActionError(ctx, "Error creating account", err)
		return h.render(c, account.UserMessage(account.ActionCreate, err))
	}
	return h.render(c, "")
}

// DeleteAccount clears the vault and the stored public key.
func (h *MiniAppHandler) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	device := middleware.DeviceID(c)

	if err := h.accounts.Delete(ctx, device, h.bridges.Manager(device)); err != nil {
		logActionError(ctx, "Error deleting account", err)
		return h.render(c, account.UserMessage(account.ActionDelete, err))
	}
	return h.render(c, "")
}

// Bridge upgrades to the biometry bridge socket and blocks until it closes.
func (h *MiniAppHandler) Bridge(c echo.Context) error {
	err := h.bridges.Serve(c.Request().Context(), c.Response(), c.Request(), middleware.DeviceID(c))
	if err != nil {
		middleware.FromContext(c.Request().Context()).Debug("bridge closed with error", "error", err)
	}
	return nil
}

// render builds the mini-app state for the session and renders it, showing
// errMsg in place of Ready when set.
func (h *MiniAppHandler) render(c echo.Context, errMsg string) error {
	ctx := c.Request().Context()
	lc, _ := middleware.Launch(c)

	state := view.MiniAppState{
		Launch:  lc,
		Balance: view.FormatBalance(view.PlaceholderBalance),
		Error:   errMsg,
	}

	record, ok, err := h.accounts.Status(ctx, middleware.DeviceID(c))
	if err != nil {
		middleware.FromContext(ctx).Error("Error reading account", "error", err)
		if state.Error == "" {
			state.Error = "Failed to load account"
		}
	}
	state.HasAccount = ok
	state.PublicKey = record.PublicKey

	return c.Render(http.StatusOK, "", pages.View(state))
}

// logActionError logs gate refusals and busy rejections at info, anything
// else at error.
func logActionError(ctx context.Context, msg string, err error) {
	logger := middleware.FromContext(ctx)
	if biometry.Message(err) != "" || errors.Is(err, account.ErrBusy) || errors.Is(err, account.ErrAlreadyExists) {
		logger.InfoContext(ctx, msg, "error", err)
		return
	}
	logger.ErrorContext(ctx, msg, "error", err)
}
