package math

import (
	"context"

	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
)

// Binary pops one value from each of "a" and "b" and pushes op(a, b) to "val".
type Binary struct {
	node.Base
	op   *Operator
	a, b *port.Input
	out  *port.Output
}

// NewBinary creates a node applying op.
func NewBinary(g node.Graph, name string, op *Operator) *Binary {
	n := &Binary{Base: node.NewBase(op.Tag, g, name), op: op}
	n.a = n.AddInput("a", op.In)
	n.b = n.AddInput("b", op.In)
	n.out = n.AddOutput("val", op.Out)
	return n
}

// Lookup returns the operator registered under tag.
func Lookup(tag string) (*Operator, bool) {
	for i := range Operators {
		if Operators[i].Tag == tag {
			return &Operators[i], true
		}
	}
	return nil, false
}

func (n *Binary) Clone(g node.Graph, name string) (node.Node, error) {
	return NewBinary(g, name, n.op), nil
}

func (n *Binary) ComputeNext(context.Context) (bool, error) {
	a, err := n.a.Pop()
	if err != nil {
		return false, err
	}
	b, err := n.b.Pop()
	if err != nil {
		return false, err
	}
	res, err := n.op.Apply(a, b)
	if err != nil {
		return false, err
	}
	return true, n.out.Push(res)
}
