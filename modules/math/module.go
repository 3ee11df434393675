// Package math provides binary operator nodes backed by the cty standard
// library, and a windowed sum.
package math

import (
	"errors"

	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

const TagWindowSum = "math.window_sum"

// Operator describes a binary node kind.
type Operator struct {
	Tag string
	// In is the element type of both inputs, Out that of the result.
	In, Out cty.Type
	Apply   func(a, b cty.Value) (cty.Value, error)
}

func call(fn function.Function) func(a, b cty.Value) (cty.Value, error) {
	return func(a, b cty.Value) (cty.Value, error) {
		return fn.Call([]cty.Value{a, b})
	}
}

// ErrDivideByZero is returned by math.divide and math.modulo for a zero divisor.
var ErrDivideByZero = errors.New("divide by zero")

func nonZeroDivisor(fn function.Function) func(a, b cty.Value) (cty.Value, error) {
	apply := call(fn)
	return func(a, b cty.Value) (cty.Value, error) {
		if b.IsKnown() && !b.IsNull() && b.Equals(cty.Zero).True() {
			return cty.NilVal, ErrDivideByZero
		}
		return apply(a, b)
	}
}

func concat(a, b cty.Value) (cty.Value, error) {
	return stdlib.FormatFunc.Call([]cty.Value{cty.StringVal("%s%s"), a, b})
}

// Operators lists every binary kind the module registers.
var Operators = []Operator{
	{Tag: "math.add", In: cty.Number, Out: cty.Number, Apply: call(stdlib.AddFunc)},
	{Tag: "math.subtract", In: cty.Number, Out: cty.Number, Apply: call(stdlib.SubtractFunc)},
	{Tag: "math.multiply", In: cty.Number, Out: cty.Number, Apply: call(stdlib.MultiplyFunc)},
	{Tag: "math.divide", In: cty.Number, Out: cty.Number, Apply: nonZeroDivisor(stdlib.DivideFunc)},
	{Tag: "math.modulo", In: cty.Number, Out: cty.Number, Apply: nonZeroDivisor(stdlib.ModuloFunc)},
	{Tag: "math.pow", In: cty.Number, Out: cty.Number, Apply: call(stdlib.PowFunc)},
	{Tag: "math.max", In: cty.Number, Out: cty.Number, Apply: call(stdlib.MaxFunc)},
	{Tag: "math.min", In: cty.Number, Out: cty.Number, Apply: call(stdlib.MinFunc)},
	{Tag: "math.greater", In: cty.Number, Out: cty.Bool, Apply: call(stdlib.GreaterThanFunc)},
	{Tag: "math.less", In: cty.Number, Out: cty.Bool, Apply: call(stdlib.LessThanFunc)},
	{Tag: "string.concat", In: cty.String, Out: cty.String, Apply: concat},
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the templates with the registry.
func (m *Module) Register(r *registry.Registry) {
	for i := range Operators {
		r.Register(NewBinary(nil, Operators[i].Tag, &Operators[i]))
	}
	r.Register(NewWindowSum(nil, TagWindowSum, 2))
}
