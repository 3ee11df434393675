package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pullgrid/internal/port"
	"github.com/zclconf/go-cty/cty"
)

// ErrTemplate is returned when an operation needs a live node but was given
// a template.
var ErrTemplate = errors.New("node is a template")

// Graph is the owner a live node is bound to. It hands out ports and runs
// the scheduler.
type Graph interface {
	NewInput(owner, name string, typ cty.Type) *port.Input
	NewOutput(owner, name string, typ cty.Type) *port.Output
	Drive(ctx context.Context) error
}

// Node is a named unit of computation with typed input and output ports.
type Node interface {
	// Name is unique within the owning graph.
	Name() string
	// Tag identifies the kind of node in a registry.
	Tag() string
	// Graph returns the owning graph, or nil for a template.
	Graph() Graph
	// Inputs and Outputs map port names to ports. Templates map every
	// declared name to nil. Callers must not modify the maps.
	Inputs() map[string]*port.Input
	Outputs() map[string]*port.Output
	// DeclareDemand translates the demand on the outputs into requests on
	// the inputs.
	DeclareDemand()
	// ComputeNext is called once every input has at least one buffered
	// value. It reports whether anything was pushed to an output.
	ComputeNext(ctx context.Context) (bool, error)
	// Clone returns a copy bound to g with fresh, disconnected ports. The
	// kind's configuration is preserved, its wiring never is. A nil g yields
	// another template.
	Clone(g Graph, name string) (Node, error)
}

// Base carries the identity and ports of a node. Kinds embed it.
type Base struct {
	name    string
	tag     string
	graph   Graph
	inputs  map[string]*port.Input
	outputs map[string]*port.Output
}

// NewBase creates the shared part of a node. When g is nil the node is a
// template and its ports stay absent.
func NewBase(tag string, g Graph, name string) Base {
	return Base{
		name:    name,
		tag:     tag,
		graph:   g,
		inputs:  make(map[string]*port.Input),
		outputs: make(map[string]*port.Output),
	}
}

func (b *Base) Name() string                     { return b.name }
func (b *Base) Tag() string                      { return b.tag }
func (b *Base) Graph() Graph                     { return b.graph }
func (b *Base) Inputs() map[string]*port.Input   { return b.inputs }
func (b *Base) Outputs() map[string]*port.Output { return b.outputs }

// IsTemplate reports whether the node is unbound.
func (b *Base) IsTemplate() bool { return b.graph == nil }

// AddInput declares an input port and returns it, or nil for a template.
func (b *Base) AddInput(name string, typ cty.Type) *port.Input {
	if _, exists := b.inputs[name]; exists {
		panic(fmt.Sprintf("node %q: input %q declared twice", b.tag, name))
	}
	if b.graph == nil {
		b.inputs[name] = nil
		return nil
	}
	in := b.graph.NewInput(b.name, name, typ)
	b.inputs[name] = in
	return in
}

// AddOutput declares an output port and returns it, or nil for a template.
func (b *Base) AddOutput(name string, typ cty.Type) *port.Output {
	if _, exists := b.outputs[name]; exists {
		panic(fmt.Sprintf("node %q: output %q declared twice", b.tag, name))
	}
	if b.graph == nil {
		b.outputs[name] = nil
		return nil
	}
	out := b.graph.NewOutput(b.name, name, typ)
	b.outputs[name] = out
	return out
}

// DeclareDemand implements the simple node policy: one value of every input
// per value of every output.
func (b *Base) DeclareDemand() {
	required := 0
	for _, out := range b.outputs {
		if out != nil && out.Requested() > required {
			required = out.Requested()
		}
	}
	if required == 0 {
		return
	}
	for _, in := range b.inputs {
		if in != nil {
			in.RequestUpTo(required)
		}
	}
}

// Drive runs the owning graph's scheduler.
func (b *Base) Drive(ctx context.Context) error {
	if b.graph == nil {
		return fmt.Errorf("drive %q: %w", b.tag, ErrTemplate)
	}
	return b.graph.Drive(ctx)
}

// ComputeIfReady calls n.ComputeNext when every input holds at least one
// value. Otherwise it returns false and touches nothing.
func ComputeIfReady(ctx context.Context, n Node) (bool, error) {
	for _, in := range n.Inputs() {
		if in == nil || in.Remaining() == 0 {
			return false, nil
		}
	}
	produced, err := n.ComputeNext(ctx)
	if err != nil {
		return produced, fmt.Errorf("compute %q: %w", n.Name(), err)
	}
	return produced, nil
}
