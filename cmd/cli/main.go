package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecosync/ecosync/internal/client/cli"
	"github.com/ecosync/ecosync/internal/client/config"
	"github.com/ecosync/ecosync/internal/flagx"
	"github.com/ecosync/ecosync/internal/logging"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	if s, ok := log.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Execute(ctx, flagx.StripArgs(os.Args[1:], config.Flags))
}
