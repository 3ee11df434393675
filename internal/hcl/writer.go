package hcl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/pullgrid/internal/config"
	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Writer renders a model in HCL native syntax.
type Writer struct{}

var _ config.Writer = (*Writer)(nil)

// NewWriter creates a new HCL graph file writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write renders m. Node names, output names and setting names must be valid
// identifiers, since wires are written as traversals.
func (wr *Writer) Write(ctx context.Context, w io.Writer, m *config.Model) error {
	f, err := Render(m)
	if err != nil {
		return err
	}
	n, err := w.Write(hclwrite.Format(f.Bytes()))
	if err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("HCL graph file written.", "nodes", len(m.Nodes), "bytes", n)
	return nil
}

// Render builds the HCL file for m.
func Render(m *config.Model) (*hclwrite.File, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, n := range m.Nodes {
		if err := checkNames(n); err != nil {
			return nil, err
		}
		if i > 0 {
			body.AppendNewline()
		}
		nb := body.AppendNewBlock("node", []string{n.Type, n.Name}).Body()

		if n.ElemType != cty.NilType {
			nb.SetAttributeRaw(typeAttr, typeTokens(n.ElemType))
		}
		for _, key := range sortedKeys(n.Settings) {
			nb.SetAttributeValue(key, n.Settings[key])
		}
		if len(n.Inputs) > 0 {
			cb := nb.AppendNewBlock("connect", nil).Body()
			for _, wire := range n.Inputs {
				cb.SetAttributeTraversal(wire.Input, hcl.Traversal{
					hcl.TraverseRoot{Name: wire.FromNode},
					hcl.TraverseAttr{Name: wire.FromOutput},
				})
			}
		}
	}
	return f, nil
}

func typeTokens(ty cty.Type) hclwrite.Tokens {
	return hclwrite.Tokens{{Type: hclsyntax.TokenIdent, Bytes: []byte(typeexpr.TypeString(ty))}}
}

func checkNames(n *config.Node) error {
	var errs []error
	if !hclsyntax.ValidIdentifier(n.Name) {
		errs = append(errs, fmt.Errorf("node %q: name is not a valid identifier", n.Name))
	}
	for key := range n.Settings {
		if !hclsyntax.ValidIdentifier(key) || key == typeAttr || key == "connect" {
			errs = append(errs, fmt.Errorf("node %q: setting name %q cannot be written", n.Name, key))
		}
	}
	for _, wire := range n.Inputs {
		if !hclsyntax.ValidIdentifier(wire.Input) || !hclsyntax.ValidIdentifier(wire.FromOutput) {
			errs = append(errs, fmt.Errorf("node %q: wire %s cannot be written", n.Name, wire))
		}
	}
	return errors.Join(errs...)
}

func sortedKeys(m map[string]cty.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
