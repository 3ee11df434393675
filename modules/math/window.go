package math

import (
	"context"
	"fmt"

	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/zclconf/go-cty/cty"
)

// WindowSum consumes "size" values from "in" for every value it pushes to
// "sum". Windows do not overlap.
type WindowSum struct {
	node.Base
	size int
	in   *port.Input
	out  *port.Output
}

// NewWindowSum creates a windowed sum over size values.
func NewWindowSum(g node.Graph, name string, size int) *WindowSum {
	w := &WindowSum{Base: node.NewBase(TagWindowSum, g, name), size: size}
	w.in = w.AddInput("in", cty.Number)
	w.out = w.AddOutput("sum", cty.Number)
	return w
}

func (w *WindowSum) Clone(g node.Graph, name string) (node.Node, error) {
	return NewWindowSum(g, name, w.size), nil
}

// DeclareDemand asks for size inputs per requested output.
func (w *WindowSum) DeclareDemand() {
	if w.out == nil || w.out.Requested() == 0 {
		return
	}
	w.in.RequestUpTo(w.out.Requested() * w.size)
}

func (w *WindowSum) ComputeNext(context.Context) (bool, error) {
	if w.in.Remaining() < w.size {
		return false, nil
	}
	sum := cty.Zero
	for range w.size {
		v, err := w.in.Pop()
		if err != nil {
			return false, err
		}
		sum = sum.Add(v)
	}
	return true, w.out.Push(sum)
}

func (w *WindowSum) Settings() node.Settings {
	return node.Settings{Values: map[string]cty.Value{"size": cty.NumberIntVal(int64(w.size))}}
}

// Configure accepts a positive integer "size" (default 2).
func (w *WindowSum) Configure(s node.Settings) (node.Node, error) {
	if err := s.CheckKeys("size"); err != nil {
		return nil, err
	}
	size := 2
	if _, err := s.Decode("size", &size); err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, fmt.Errorf("size must be at least 1, got %d", size)
	}
	return NewWindowSum(nil, w.Name(), size), nil
}
