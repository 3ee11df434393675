package value

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Constant pushes a copy of its value for every unit of demand.
type Constant struct {
	node.Base
	val cty.Value
	out *port.Output
}

// NewConstant creates a constant whose output type is the type of v.
func NewConstant(g node.Graph, name string, v cty.Value) *Constant {
	c := &Constant{Base: node.NewBase(TagValue, g, name), val: v}
	c.out = c.AddOutput("val", v.Type())
	return c
}

// Value returns the held value.
func (c *Constant) Value() cty.Value { return c.val }

func (c *Constant) Clone(g node.Graph, name string) (node.Node, error) {
	return NewConstant(g, name, c.val), nil
}

func (c *Constant) ComputeNext(context.Context) (bool, error) {
	pushed := false
	for c.out.Requested() > 0 {
		if err := c.out.Push(c.val); err != nil {
			return pushed, err
		}
		pushed = true
	}
	return pushed, nil
}

func (c *Constant) Settings() node.Settings {
	return node.Settings{
		Type:   c.val.Type(),
		Values: map[string]cty.Value{"value": c.val},
	}
}

// Configure accepts a "value" and an optional type the value is converted to.
func (c *Constant) Configure(s node.Settings) (node.Node, error) {
	if err := s.CheckKeys("value"); err != nil {
		return nil, err
	}
	v, ok := s.Get("value")
	if !ok {
		return nil, errors.New(`"value" is required`)
	}
	v, err := known(v, s.Type)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	return NewConstant(nil, c.Name(), v), nil
}

// known converts v to typ, when typ is set, and rejects null or unknown
// results.
func known(v cty.Value, typ cty.Type) (cty.Value, error) {
	if typ != cty.NilType && typ != cty.DynamicPseudoType {
		converted, err := convert.Convert(v, typ)
		if err != nil {
			return cty.NilVal, fmt.Errorf("cannot use %s as %s: %w", v.Type().FriendlyName(), typ.FriendlyName(), err)
		}
		v = converted
	}
	if v.IsNull() {
		return cty.NilVal, errors.New("must not be null")
	}
	if !v.IsWhollyKnown() {
		return cty.NilVal, errors.New("must be known")
	}
	return v, nil
}
