package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/pullgrid/internal/config"
	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/metrics"
	"github.com/vk/pullgrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	model      *config.Model
	writer     config.Writer
	metrics    *metrics.Collector
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results and print
// nodes go to outW, logs to logW. With no modules the core set is used.
//
// It panics when the graph files cannot be loaded or the registry is
// inconsistent; the entrypoint recovers and reports these as startup errors.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, writer config.Writer, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loadModel(ctx, loader, cfg.GraphPaths)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	reg.RegisterModules(modules...)
	reg.Freeze()
	logger.Debug("All Go modules registered.", "count", len(modules), "tags", reg.Tags())

	if err := reg.Validate(ctx); err != nil {
		// A template that cannot round-trip its own settings is a programmer error.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		model:    model,
		writer:   writer,
		metrics:  metrics.New("pullgrid"),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded graph model.
func (a *App) Model() *config.Model {
	return a.model
}
