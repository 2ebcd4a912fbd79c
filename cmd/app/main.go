package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"consideration_go/internal/app"
	"consideration_go/internal/infra"
)

func main() {
	// Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(ctx); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := bootstrap.Close(); err != nil {
			slog.Error("Shutdown error", slog.Any("error", err))
		}
	}()

	infra.PrintBanner(bootstrap.Banner())

	go bootstrap.WatchChain(ctx, bootstrap.Config.ChainPollInterval())

	slog.InfoContext(ctx, "✨ Consideration fully operational. Press Ctrl+C to exit.")

	<-ctx.Done()

	slog.Info("👋 Shutting down gracefully...")
}
