package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homebase-go/internal/app"
	"homebase-go/pkg/logger"
)

func main() {
	log := logger.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Critical("homebase: exiting", "err", err)
		stop()
		os.Exit(1)
	}
	log.Info("homebase: stopped")
}

func run(ctx context.Context, log logger.Logger) (err error) {
	log.Info("homebase: starting")

	application, err := app.New(ctx, log)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close: %w", closeErr)
		}
	}()

	return application.Run(ctx)
}
