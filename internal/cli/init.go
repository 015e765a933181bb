// Package cli provides common initialization utilities shared by
// cmd/lumina and cmd/luminactl.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lumina/internal/backend"
	"lumina/internal/config"
	"lumina/internal/core"
	"lumina/internal/log"
	"lumina/internal/services"
)

// SetupLogger builds the application logger from cfg, writing to out, and
// installs it as the slog default. A nil cfg yields the default settings.
func SetupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	lc := log.DefaultConfig()
	lc.Output = out
	if cfg != nil {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
		if cfg.LogFormat == log.FormatJSON {
			lc.Format = log.FormatJSON
		}
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, sets up logging from it and
// validates it. It exits the process on validation failure.
func LoadAndValidateConfig(logOut io.Writer) (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg, logOut)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitStore opens the configured storage backend. It exits the process on
// failure.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.Error("Failed to initialize storage backend", log.FieldError, err, log.FieldBackend, bc.Type)
		os.Exit(1)
	}
	return res
}

// OpenFinance loads the user's data from store.
func OpenFinance(ctx context.Context, logger *log.Logger, cfg *config.Config, res *backend.BackendResult) (*services.Finance, error) {
	return services.Open(ctx, res.Store,
		services.WithLogger(logger),
		services.WithDefaultCurrency(core.CurrencyCode(cfg.DefaultCurrency)))
}

// Cleanup runs the backend cleanup, logging any failure.
func Cleanup(logger *log.Logger, res *backend.BackendResult) {
	if res == nil || res.Cleanup == nil {
		return
	}
	if err := res.Cleanup(); err != nil {
		logger.Error("Failed to close storage backend", log.FieldError, err)
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
