package builder

import (
	"context"
	"fmt"

	"github.com/vk/pullgrid/internal/config"
	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/dag"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/registry"
)

// Build constructs a graph from m using the templates in reg. On failure the
// partially built graph is closed.
func Build(ctx context.Context, m *config.Model, reg *registry.Registry, opts ...graph.Option) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "declarations", len(m.Nodes))

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph model: %w", err)
	}

	order, edges, err := sortDeclarations(ctx, m)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Topological order computed.", "order", order, "edges", edges)

	g, err := graph.New(opts...)
	if err != nil {
		return nil, err
	}

	if err := createNodes(ctx, g, m, order, reg); err != nil {
		return nil, closeOnError(g, err)
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	if err := linkNodes(ctx, g, m, order); err != nil {
		return nil, closeOnError(g, err)
	}
	logger.Debug("Build: Node linking complete.")

	logger.Info("Build: Graph construction successful.", "node_count", g.Len())
	return g, nil
}

// sortDeclarations orders node names so every producer precedes its consumers.
// It also returns the number of distinct producer/consumer pairs.
func sortDeclarations(ctx context.Context, m *config.Model) ([]string, int, error) {
	logger := ctxlog.FromContext(ctx)
	d := dag.New()
	for _, n := range m.Nodes {
		d.AddNode(n.Name)
	}
	for _, n := range m.Nodes {
		for _, w := range n.Inputs {
			if err := d.AddEdge(w.FromNode, n.Name); err != nil {
				return nil, 0, fmt.Errorf("node %q: %w", n.Name, err)
			}
		}
	}
	if err := d.DetectCycles(); err != nil {
		return nil, 0, fmt.Errorf("error validating dependency graph: %w", err)
	}
	order, err := d.TopologicalSort()
	if err != nil {
		return nil, 0, fmt.Errorf("error validating dependency graph: %w", err)
	}
	for _, name := range order {
		producers, _ := d.Dependencies(name)
		consumers, _ := d.Dependents(name)
		logger.Debug("Build: Node ordered.", "node", name, "producers", producers, "consumers", consumers)
	}
	return order, d.Edges(), nil
}

func createNodes(ctx context.Context, g *graph.Graph, m *config.Model, order []string, reg *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)
	for _, name := range order {
		decl, _ := m.Lookup(name)
		s := node.Settings{Type: decl.ElemType, Values: decl.Settings}
		n, err := reg.Instantiate(g, decl.Type, decl.Name, &s)
		if err != nil {
			return err
		}
		logger.Debug("Build: Node created.", "node", n.Name(), "tag", n.Tag(), "index", g.Index(n))
	}
	return nil
}

func linkNodes(ctx context.Context, g *graph.Graph, m *config.Model, order []string) error {
	logger := ctxlog.FromContext(ctx)
	for _, name := range order {
		decl, _ := m.Lookup(name)
		for _, w := range decl.Inputs {
			if err := g.ConnectNames(w.FromNode, w.FromOutput, decl.Name, w.Input); err != nil {
				return err
			}
			logger.Debug("Build: Wire linked.", "node", decl.Name, "wire", w.String())
		}
	}
	return nil
}

func closeOnError(g *graph.Graph, err error) error {
	if cerr := g.Close(); cerr != nil {
		return fmt.Errorf("%w (close: %v)", err, cerr)
	}
	return err
}
