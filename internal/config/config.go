package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultWebAppURL is the Telegram deep link the landing page points at.
const DefaultWebAppURL = "https://t.me/StarBeamBot/wallet"

// Config holds all configuration for the application.
type Config struct {
	Addr      string `env:"STARBEAM_ADDR" envDefault:":8080" validate:"required"`
	WebAppURL string `env:"WEBAPP_URL" validate:"required,url"`

	// BotToken enables Telegram initData signature checks when set.
	BotToken       string        `env:"TELEGRAM_BOT_TOKEN"`
	InitDataMaxAge time.Duration `env:"INIT_DATA_MAX_AGE" envDefault:"24h" validate:"gte=0"`

	SessionSecret string `env:"SESSION_SECRET,required" validate:"min=16"`
	// SecureCookies marks the session cookie Secure and SameSite=None, which
	// the Telegram web client needs. Turn it off for plain-http development.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"true"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite" validate:"oneof=sqlite file"`
	StoragePath   string `env:"STORAGE_PATH" envDefault:"starbeam.db" validate:"required"`

	BridgeCallTimeout time.Duration `env:"BRIDGE_CALL_TIMEOUT" envDefault:"60s" validate:"gte=0"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// ValidateInitData reports whether launch data signatures are checked.
func (c *Config) ValidateInitData() bool {
	return c.BotToken != ""
}

// New loads a .env file when present and then parses the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return Load()
}

// Load parses and validates the current environment without touching .env.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WebAppURL == "" {
		cfg.WebAppURL = DefaultWebAppURL
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid config: %s: failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
