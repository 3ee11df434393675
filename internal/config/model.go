package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Model is the format-agnostic representation of a graph file: an ordered
// list of node declarations.
type Model struct {
	Nodes []*Node
}

// Node is one node declaration.
type Node struct {
	// Type is the registry tag.
	Type string
	// Name is unique within the model.
	Name string
	// ElemType is cty.NilType when the file did not give one.
	ElemType cty.Type
	Settings map[string]cty.Value
	// Inputs lists the wired inputs, sorted by input name.
	Inputs []Wire
}

// Wire feeds an input of the declaring node from an output of another node.
type Wire struct {
	Input      string
	FromNode   string
	FromOutput string
}

func (w Wire) String() string {
	return fmt.Sprintf("%s <- %s.%s", w.Input, w.FromNode, w.FromOutput)
}

// Lookup returns the declaration named name.
func (m *Model) Lookup(name string) (*Node, bool) {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// SortInputs orders the wires of every node by input name.
func (m *Model) SortInputs() {
	for _, n := range m.Nodes {
		sort.SliceStable(n.Inputs, func(i, j int) bool { return n.Inputs[i].Input < n.Inputs[j].Input })
	}
}

// Validate checks the model for problems that do not need a registry:
// missing identities, duplicate names, inputs wired twice, and wires naming
// unknown nodes. Every problem is reported.
func (m *Model) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(m.Nodes))
	for i, n := range m.Nodes {
		switch {
		case n.Name == "":
			errs = append(errs, fmt.Errorf("node #%d: empty name", i))
		case n.Type == "":
			errs = append(errs, fmt.Errorf("node %q: empty type", n.Name))
		}
		if _, dup := seen[n.Name]; dup && n.Name != "" {
			errs = append(errs, fmt.Errorf("node %q: declared more than once", n.Name))
		}
		seen[n.Name] = struct{}{}
	}
	for _, n := range m.Nodes {
		wired := make(map[string]struct{}, len(n.Inputs))
		for _, w := range n.Inputs {
			if _, dup := wired[w.Input]; dup {
				errs = append(errs, fmt.Errorf("node %q: input %q wired more than once", n.Name, w.Input))
			}
			wired[w.Input] = struct{}{}
			if _, ok := seen[w.FromNode]; !ok {
				errs = append(errs, fmt.Errorf("node %q: input %q reads from unknown node %q", n.Name, w.Input, w.FromNode))
			}
			if w.FromNode == n.Name {
				errs = append(errs, fmt.Errorf("node %q: input %q reads from itself", n.Name, w.Input))
			}
		}
	}
	return errors.Join(errs...)
}
