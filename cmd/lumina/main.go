package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"lumina/internal/cli"
	apphttp "lumina/internal/http"
	"lumina/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(os.Stdout)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res := cli.InitStore(ctx, logger, cfg)
	defer cli.Cleanup(logger, res)

	fin, err := cli.OpenFinance(ctx, logger, cfg, res)
	if err != nil {
		logger.Error("Failed to load data", log.FieldError, err)
		cli.Cleanup(logger, res)
		os.Exit(1)
	}

	srv := apphttp.NewServer(cfg.Addr(), fin, logger)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting lumina server", "addr", cfg.Addr(), log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "addr", cfg.Addr())
		cli.Cleanup(logger, res)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
