package value

import (
	"context"
	"fmt"

	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/zclconf/go-cty/cty"
)

// Sequence pushes start, start+step, start+2*step, ... one term per unit of
// demand. Clones restart from start.
type Sequence struct {
	node.Base
	start, step cty.Value
	next        cty.Value
	out         *port.Output
}

// NewSequence creates a numeric sequence.
func NewSequence(g node.Graph, name string, start, step cty.Value) *Sequence {
	s := &Sequence{Base: node.NewBase(TagSequence, g, name), start: start, step: step, next: start}
	s.out = s.AddOutput("val", cty.Number)
	return s
}

func (s *Sequence) Clone(g node.Graph, name string) (node.Node, error) {
	return NewSequence(g, name, s.start, s.step), nil
}

func (s *Sequence) ComputeNext(context.Context) (bool, error) {
	pushed := false
	for s.out.Requested() > 0 {
		if err := s.out.Push(s.next); err != nil {
			return pushed, err
		}
		s.next = s.next.Add(s.step)
		pushed = true
	}
	return pushed, nil
}

func (s *Sequence) Settings() node.Settings {
	return node.Settings{Values: map[string]cty.Value{"start": s.start, "step": s.step}}
}

// Configure accepts numeric "start" (default 0) and "step" (default 1).
func (s *Sequence) Configure(set node.Settings) (node.Node, error) {
	if err := set.CheckKeys("start", "step"); err != nil {
		return nil, err
	}
	if set.Type != cty.NilType && set.Type != cty.Number {
		return nil, fmt.Errorf("sequence produces numbers, not %s", set.Type.FriendlyName())
	}
	start, step := cty.NumberIntVal(0), cty.NumberIntVal(1)
	for key, dst := range map[string]*cty.Value{"start": &start, "step": &step} {
		v, ok := set.Get(key)
		if !ok {
			continue
		}
		v, err := known(v, cty.Number)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		*dst = v
	}
	return NewSequence(nil, s.Name(), start, step), nil
}
