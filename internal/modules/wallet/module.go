// Package wallet is the Telegram Mini App module: the wallet page, account
// creation and deletion behind the biometry gate, and the bridge socket.
package wallet

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"

	"github.com/nfrund/starbeam/internal/account"
	"github.com/nfrund/starbeam/internal/biometry/bridge"
	"github.com/nfrund/starbeam/internal/config"
	"github.com/nfrund/starbeam/internal/handlers"
	"github.com/nfrund/starbeam/internal/middleware"
	"github.com/nfrund/starbeam/internal/module"
	"github.com/nfrund/starbeam/internal/pubsub"
)

// MutationsPerMinute caps account create/delete requests per device.
const MutationsPerMinute = 10

// Module implements module.Module for the mini-app.
type Module struct {
	module.BaseModule
}

var _ module.Module = (*Module)(nil)

// New creates the wallet module.
func New() *Module {
	return &Module{}
}

// Name returns the module name, which is also its mount path.
func (m *Module) Name() string {
	return "mini-app"
}

// Register provides the mini-app handler.
func (m *Module) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (*handlers.MiniAppHandler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return handlers.NewMiniAppHandler(
			do.MustInvoke[*account.Service](i),
			do.MustInvoke[*bridge.Registry](i),
			handlers.MiniAppOptions{
				BotToken:       cfg.BotToken,
				InitDataMaxAge: cfg.InitDataMaxAge,
			},
		), nil
	})
	return nil
}

// Boot starts the account audit subscriber and mounts the routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	if err := account.StartAudit(ctx, do.MustInvoke[pubsub.Bus](i)); err != nil {
		return err
	}

	slog.Info("Booting wallet module: setting up routes...")
	h := do.MustInvoke[*handlers.MiniAppHandler](i)
	h.Mount(g, middleware.RateLimiter(MutationsPerMinute))
	return nil
}

// Shutdown is called on application termination.
func (m *Module) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down wallet module...")
	return nil
}
