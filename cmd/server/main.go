package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/starbeam/internal/app"
	"github.com/nfrund/starbeam/internal/config"
	"github.com/nfrund/starbeam/internal/logging"
	"github.com/nfrund/starbeam/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	logging.New(cfg.LogFormat, cfg.LogLevel)
	if !cfg.ValidateInitData() {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, launch data will not be verified")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector, resources, err := app.NewInjector(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := resources.Close(); err != nil {
			slog.Error("Failed to release resources", "error", err)
		}
	}()

	s, err := server.New(cfg, injector, app.NewModules())
	if err != nil {
		return err
	}
	if err := s.RegisterRoutes(ctx); err != nil {
		return err
	}
	return s.Start(ctx)
}
