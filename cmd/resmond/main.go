package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resmond/internal/config"
	"resmond/internal/engine"
	"resmond/internal/source"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "resmond:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := engine.BuildLogger(cfg)
	logger.Info("starting resource monitor", "pid", os.Getpid())

	eng, err := engine.New(cfg, source.NewSystem(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := eng.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")
	eng.Stop()
	return nil
}
