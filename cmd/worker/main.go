// Command worker runs the background task consumer.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/saral-hq/saral/internal/app"
	"github.com/saral-hq/saral/jobs"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("configuration error", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// TODO: swap LogMailer for the SMTP mailer once credentials are issued
	worker := jobs.NewWorker(cfg.RedisAddr, jobs.LogMailer{Logger: logger}, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("worker started", slog.String("redis", cfg.RedisAddr))
		return worker.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		worker.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
