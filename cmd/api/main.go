package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/authkit-go/authkit/internal/app"
	"github.com/authkit-go/authkit/internal/config"
	"github.com/authkit-go/authkit/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	bootstrap := observability.NewBootstrapLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lp, err := observability.InitLogs(ctx, cfg)
	if err != nil {
		bootstrap.Error("failed to initialize log exporter", "error", err)
		os.Exit(1)
	}
	logger := observability.InitLogger(cfg, lp)
	if lp != nil {
		defer func() { _ = lp.Shutdown(context.Background()) }()
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
