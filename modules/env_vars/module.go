// Package env_vars provides the env source node.
package env_vars

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/vk/pullgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

const TagEnv = "env"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.Register(NewEnv(nil, TagEnv, "", nil))
}

// Env reads the environment at compute time. With a variable name it pushes
// that variable as a string; without one it pushes the whole environment as
// a map of strings.
type Env struct {
	node.Base
	name     string
	fallback *string
	out      *port.Output
}

// NewEnv creates an env source. fallback, when non-nil, is used for an unset
// variable.
func NewEnv(g node.Graph, nodeName, variable string, fallback *string) *Env {
	e := &Env{Base: node.NewBase(TagEnv, g, nodeName), name: variable, fallback: fallback}
	typ := cty.String
	if variable == "" {
		typ = cty.Map(cty.String)
	}
	e.out = e.AddOutput("val", typ)
	return e
}

func (e *Env) Clone(g node.Graph, name string) (node.Node, error) {
	return NewEnv(g, name, e.name, e.fallback), nil
}

func (e *Env) ComputeNext(context.Context) (bool, error) {
	pushed := false
	for e.out.Requested() > 0 {
		v, err := e.read()
		if err != nil {
			return pushed, err
		}
		if err := e.out.Push(v); err != nil {
			return pushed, err
		}
		pushed = true
	}
	return pushed, nil
}

func (e *Env) read() (cty.Value, error) {
	if e.name == "" {
		envMap := make(map[string]cty.Value)
		for _, kv := range os.Environ() {
			pair := strings.SplitN(kv, "=", 2)
			if len(pair) == 2 {
				envMap[pair[0]] = cty.StringVal(pair[1])
			}
		}
		if len(envMap) == 0 {
			return cty.MapValEmpty(cty.String), nil
		}
		return cty.MapVal(envMap), nil
	}
	if v, ok := os.LookupEnv(e.name); ok {
		return cty.StringVal(v), nil
	}
	if e.fallback != nil {
		return cty.StringVal(*e.fallback), nil
	}
	return cty.NilVal, fmt.Errorf("environment variable %q is not set", e.name)
}

func (e *Env) Settings() node.Settings {
	vals := make(map[string]cty.Value)
	if e.name != "" {
		vals["name"] = cty.StringVal(e.name)
	}
	if e.fallback != nil {
		vals["default"] = cty.StringVal(*e.fallback)
	}
	return node.Settings{Values: vals}
}

// Configure accepts an optional variable "name" and its "default".
func (e *Env) Configure(s node.Settings) (node.Node, error) {
	if err := s.CheckKeys("name", "default"); err != nil {
		return nil, err
	}
	var variable string
	if _, err := s.Decode("name", &variable); err != nil {
		return nil, err
	}
	var fallback *string
	var def string
	ok, err := s.Decode("default", &def)
	if err != nil {
		return nil, err
	}
	if ok {
		if variable == "" {
			return nil, fmt.Errorf(`"default" needs a variable "name"`)
		}
		fallback = &def
	}
	return NewEnv(nil, e.Name(), variable, fallback), nil
}
