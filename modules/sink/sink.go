// Package sink provides the return node, the caller-facing end of a graph.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

const TagReturn = "return"

var (
	// ErrNotConnected is returned by Get when nothing feeds the input.
	ErrNotConnected = errors.New("return input is not connected")
	// ErrNoValue is returned by Get when the graph settles without
	// delivering anything.
	ErrNoValue = errors.New("graph settled without a value")
	// ErrNotReturn is returned by Fetch for a node of another kind.
	ErrNotReturn = errors.New("not a return node")
	// ErrNoSuchNode is returned by Fetch for an unknown name.
	ErrNoSuchNode = errors.New("no such node")
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the templates with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(NewReturn(nil, TagReturn, cty.DynamicPseudoType))
}

// Return buffers whatever reaches its input until a caller asks for it.
type Return struct {
	node.Base
	typ cty.Type
	in  *port.Input
}

// NewReturn creates a return node accepting values of typ.
func NewReturn(g node.Graph, name string, typ cty.Type) *Return {
	r := &Return{Base: node.NewBase(TagReturn, g, name), typ: typ}
	r.in = r.AddInput("in", typ)
	return r
}

func (r *Return) Clone(g node.Graph, name string) (node.Node, error) {
	return NewReturn(g, name, r.typ), nil
}

// ComputeNext leaves buffered values for Get.
func (r *Return) ComputeNext(context.Context) (bool, error) { return false, nil }

// Get requests one value, drives the graph and returns the oldest buffered
// value.
func (r *Return) Get(ctx context.Context) (cty.Value, error) {
	if r.IsTemplate() {
		return cty.NilVal, fmt.Errorf("get %q: %w", r.Name(), node.ErrTemplate)
	}
	if !r.in.Connected() {
		return cty.NilVal, fmt.Errorf("get %q: %w", r.Name(), ErrNotConnected)
	}
	r.in.RequestUpTo(1)
	if err := r.Drive(ctx); err != nil {
		return cty.NilVal, fmt.Errorf("get %q: %w", r.Name(), err)
	}
	if r.in.Remaining() == 0 {
		return cty.NilVal, fmt.Errorf("get %q: %w", r.Name(), ErrNoValue)
	}
	return r.in.Pop()
}

func (r *Return) Settings() node.Settings {
	return node.Settings{Type: r.typ}
}

// Configure accepts only an element type.
func (r *Return) Configure(s node.Settings) (node.Node, error) {
	if err := s.CheckKeys(); err != nil {
		return nil, err
	}
	typ := s.Type
	if typ == cty.NilType {
		typ = cty.DynamicPseudoType
	}
	return NewReturn(nil, r.Name(), typ), nil
}

// Fetch gets the next value of the return node called name in g.
func Fetch(ctx context.Context, g *graph.Graph, name string) (cty.Value, error) {
	n, ok := g.Node(name)
	if !ok {
		return cty.NilVal, fmt.Errorf("fetch %q: %w", name, ErrNoSuchNode)
	}
	r, ok := n.(*Return)
	if !ok {
		return cty.NilVal, fmt.Errorf("fetch %q: %w (it is %q)", name, ErrNotReturn, n.Tag())
	}
	return r.Get(ctx)
}

// Names lists the return nodes of g in topological order.
func Names(g *graph.Graph) []string {
	var names []string
	for _, n := range g.Nodes() {
		if _, ok := n.(*Return); ok {
			names = append(names, n.Name())
		}
	}
	return names
}
