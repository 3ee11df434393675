package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Validate performs a parity check over every template: it must be unbound,
// registered under its own tag, and a configurable template must accept its
// own settings.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, tag := range r.Tags() {
		tpl := r.templates[tag]
		if tpl.Graph() != nil {
			errs = append(errs, fmt.Sprintf("node type '%s': template is bound to a graph", tag))
		}
		if tpl.Tag() != tag {
			errs = append(errs, fmt.Sprintf("node type '%s': template reports tag '%s'", tag, tpl.Tag()))
		}
		for name, in := range tpl.Inputs() {
			if in != nil {
				errs = append(errs, fmt.Sprintf("node type '%s': template input '%s' is allocated", tag, name))
			}
		}
		c, ok := tpl.(node.Configurable)
		if !ok {
			continue
		}
		s := c.Settings()
		if s.Type == cty.DynamicPseudoType {
			logger.Debug("Node type accepts any element type; checks happen at wiring time.", "tag", tag)
		}
		if _, err := c.Configure(s); err != nil {
			errs = append(errs, fmt.Sprintf("node type '%s': template rejects its own settings: %v", tag, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
