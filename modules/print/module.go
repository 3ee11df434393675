// Package print provides the debug node: it writes every value it sees and
// produces nothing.
package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const TagPrint = "print"

// Module implements the registry.Module interface for this package.
// Out defaults to os.Stdout.
type Module struct {
	Out io.Writer
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.Register(NewPrint(nil, TagPrint, out))
}

// Print has a single "value" input of any type and no outputs. Having no
// outputs it never creates demand, so it only observes values that a sibling
// consumer of the same producer asked for.
type Print struct {
	node.Base
	w  io.Writer
	in *port.Input
}

// NewPrint creates a debug node writing to w.
func NewPrint(g node.Graph, name string, w io.Writer) *Print {
	p := &Print{Base: node.NewBase(TagPrint, g, name), w: w}
	p.in = p.AddInput("value", cty.DynamicPseudoType)
	return p
}

func (p *Print) Clone(g node.Graph, name string) (node.Node, error) {
	return NewPrint(g, name, p.w), nil
}

// ComputeNext drains the input, printing one line per value.
func (p *Print) ComputeNext(ctx context.Context) (bool, error) {
	logger := ctxlog.FromContext(ctx).With("node", p.Name())
	for p.in.Remaining() > 0 {
		v, err := p.in.Pop()
		if err != nil {
			return false, err
		}
		text, err := Render(v)
		if err != nil {
			return false, err
		}
		logger.Debug("Printing value", "type", v.Type().FriendlyName())
		if _, err := fmt.Fprintf(p.w, "%s = %s\n", p.Name(), text); err != nil {
			return false, fmt.Errorf("write: %w", err)
		}
	}
	return false, nil
}

// Render formats v as JSON on one line. Null values render as "(null)".
func Render(v cty.Value) (string, error) {
	if v.IsNull() {
		return "(null)", nil
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", fmt.Errorf("render %s: %w", v.Type().FriendlyName(), err)
	}
	return string(b), nil
}
