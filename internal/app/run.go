package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pullgrid/internal/builder"
	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/modules/sink"

	prnt "github.com/vk/pullgrid/modules/print"
)

// Run builds the graph and prints one value from each requested return node
// as "name = <json>". Every requested sink is attempted; their errors are
// joined.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(ctx, a.config.HealthcheckPort); err != nil {
			return err
		}
		defer func() { err = errors.Join(err, a.closeHealthcheckServer(ctx)) }()
	}

	g, err := builder.Build(ctx, a.model, a.registry,
		graph.WithMaxPasses(a.config.MaxPasses),
		graph.WithScheduler(a.config.Schedule),
		graph.WithObserver(a.metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	defer func() {
		if cerr := g.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close graph: %w", cerr))
		}
	}()

	sinks := a.config.Sinks
	if len(sinks) == 0 {
		sinks = sink.Names(g)
	}
	if len(sinks) == 0 {
		a.logger.Warn("No return nodes found in graph, nothing to pull.")
	}

	a.logger.Info("Pulling results...", "sinks", sinks, "schedule", a.config.Schedule)
	var errs []error
	for _, name := range sinks {
		if err := a.pull(ctx, g, name); err != nil {
			a.logger.Error("Pull failed.", "sink", name, "error", err)
			errs = append(errs, err)
		}
	}

	if a.config.Dump {
		if err := g.Dump(a.outW); err != nil {
			errs = append(errs, fmt.Errorf("dump: %w", err))
		}
	}

	if a.config.SavePath != "" {
		if err := a.saveGraph(ctx, g, a.config.SavePath); err != nil {
			errs = append(errs, err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return errors.Join(errs...)
}

func (a *App) pull(ctx context.Context, g *graph.Graph, name string) error {
	v, err := sink.Fetch(ctx, g, name)
	if err != nil {
		return err
	}
	text, err := prnt.Render(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	_, err = fmt.Fprintf(a.outW, "%s = %s\n", name, text)
	return err
}
