// Package value provides source nodes: constants and arithmetic sequences.
package value

import (
	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

const (
	TagValue    = "value"
	TagSequence = "sequence"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the templates with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(NewConstant(nil, TagValue, cty.NumberIntVal(0)))
	r.Register(NewSequence(nil, TagSequence, cty.NumberIntVal(0), cty.NumberIntVal(1)))
}
