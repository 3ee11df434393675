package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/node"
)

var (
	ErrUnknownTag      = errors.New("unknown node type")
	ErrNotConfigurable = errors.New("node type takes no settings")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Module is the interface that all node modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the template of every known node type.
type Registry struct {
	templates map[string]node.Node
	frozen    bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{templates: make(map[string]node.Node)}
}

// Register adds tpl under its tag. It panics if the registry is frozen, the
// tag is already taken or malformed, or tpl is bound to a graph.
func (r *Registry) Register(tpl node.Node) {
	if r.frozen {
		panic("registry is frozen")
	}
	if tpl == nil {
		panic("nil template")
	}
	tag := tpl.Tag()
	if err := validTag(tag); err != nil {
		panic(fmt.Sprintf("node type %q: %v", tag, err))
	}
	if tpl.Graph() != nil {
		panic(fmt.Sprintf("node type %q: template %q is bound to a graph", tag, tpl.Name()))
	}
	if _, exists := r.templates[tag]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", tag))
	}
	slog.Debug("Registering node type.", "tag", tag)
	r.templates[tag] = tpl
}

// RegisterModules calls Register on every module.
func (r *Registry) RegisterModules(mods ...Module) {
	for _, m := range mods {
		m.Register(r)
	}
}

func validTag(tag string) error {
	if tag == "" {
		return errors.New("empty tag")
	}
	if strings.Contains(tag, "/") {
		return errors.New("tag must not contain '/'")
	}
	if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
		return errors.New("tag must not contain whitespace")
	}
	return nil
}

// Freeze rejects every later Register call.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool { return r.frozen }

// Lookup returns the template registered under tag.
func (r *Registry) Lookup(tag string) (node.Node, bool) {
	tpl, ok := r.templates[tag]
	return tpl, ok
}

// Tags returns every registered tag, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.templates))
	for tag := range r.templates {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Instantiate clones the template for tag into g as name. When s is non-nil
// the template is first reconfigured with it.
func (r *Registry) Instantiate(g *graph.Graph, tag, name string, s *node.Settings) (node.Node, error) {
	tpl, ok := r.templates[tag]
	if !ok {
		return nil, fmt.Errorf("node %q: %w %q", name, ErrUnknownTag, tag)
	}
	if s != nil && !s.IsZero() {
		c, ok := tpl.(node.Configurable)
		if !ok {
			return nil, fmt.Errorf("node %q: %w (%s)", name, ErrNotConfigurable, tag)
		}
		configured, err := c.Configure(*s)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w: %w", name, ErrInvalidSettings, err)
		}
		tpl = configured
	}
	return g.AddCopyOf(tpl, name)
}
