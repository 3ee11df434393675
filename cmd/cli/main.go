package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/pullgrid/internal/app"
	"github.com/vk/pullgrid/internal/cli"
	"github.com/vk/pullgrid/internal/hcl"
	"github.com/vk/pullgrid/internal/registry"
)

// main is the entrypoint for the pullgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
// Modules default to the core set when none are given.
func run(ctx context.Context, outW, errW io.Writer, args []string, modules ...registry.Module) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	pullgrid, err := newApp(outW, errW, appConfig, modules)
	if err != nil {
		return err
	}
	return pullgrid.Run(ctx)
}

// newApp reports the panics NewApp raises on critical config errors as errors.
func newApp(outW, errW io.Writer, cfg *app.Config, modules []registry.Module) (a *app.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()
	return app.NewApp(outW, errW, cfg, hcl.NewLoader(), hcl.NewWriter(), modules...), nil
}
