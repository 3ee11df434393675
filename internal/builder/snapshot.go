package builder

import (
	"github.com/vk/pullgrid/internal/config"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Snapshot describes g as a model in insertion order. Building the snapshot
// with the same registry yields an equivalent graph.
func Snapshot(g *graph.Graph) *config.Model {
	m := &config.Model{}
	for _, n := range g.Nodes() {
		decl := &config.Node{
			Type:     n.Tag(),
			Name:     n.Name(),
			ElemType: cty.NilType,
			Settings: make(map[string]cty.Value),
		}
		if c, ok := n.(node.Configurable); ok {
			s := c.Settings()
			decl.ElemType = s.Type
			for k, v := range s.Values {
				decl.Settings[k] = v
			}
		}

		for name, in := range n.Inputs() {
			up := in.Upstream()
			if up == nil {
				continue
			}
			decl.Inputs = append(decl.Inputs, config.Wire{
				Input:      name,
				FromNode:   up.Ref().Node,
				FromOutput: up.Ref().Port,
			})
		}
		m.Nodes = append(m.Nodes, decl)
	}
	m.SortInputs()
	return m
}
