package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/pullgrid/internal/builder"
	"github.com/vk/pullgrid/internal/config"
	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/graph"
)

func loadModel(ctx context.Context, loader config.Loader, paths []string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading graph files...", "paths", paths)

	m, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	logger.Info("Graph files loaded successfully.", "nodes_found", len(m.Nodes))
	return m, nil
}

// saveGraph writes the live graph to path, replacing any existing file.
func (a *App) saveGraph(ctx context.Context, g *graph.Graph, path string) error {
	logger := ctxlog.FromContext(ctx)
	if a.writer == nil {
		return fmt.Errorf("save %s: no graph writer configured", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	if err := a.writer.Write(ctx, f, builder.Snapshot(g)); err != nil {
		f.Close()
		return fmt.Errorf("save graph %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save graph %s: %w", path, err)
	}
	logger.Info("Graph saved.", "path", path, "nodes", g.Len())
	return nil
}
