package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pullgrid/internal/config"
	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Extensions lists the file suffixes the loader picks up from directories.
var Extensions = []string{".hcl", ".hcl.json"}

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL graph file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Nodes  []*nodeBlock `hcl:"node,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type nodeBlock struct {
	Tag     string        `hcl:"tag,label"`
	Name    string        `hcl:"name,label"`
	Connect *connectBlock `hcl:"connect,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

type connectBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Load parses every graph file found under paths into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no graph files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		var hclFile *hcl.File
		var diags hcl.Diagnostics
		if filepath.Ext(file) == ".json" {
			hclFile, diags = parser.ParseJSONFile(file)
		} else {
			hclFile, diags = parser.ParseHCLFile(file)
		}
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, blk := range root.Nodes {
			n, err := l.translateNode(ctx, blk)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Nodes = append(model.Nodes, n)
		}
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "files", len(files), "nodes", len(model.Nodes))
	return model, nil
}

// typeAttr is the reserved attribute holding the element type.
const typeAttr = "type"

func (l *Loader) translateNode(ctx context.Context, blk *nodeBlock) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx).With("node", blk.Name)
	n := &config.Node{
		Type:     blk.Tag,
		Name:     blk.Name,
		ElemType: cty.NilType,
		Settings: make(map[string]cty.Value),
	}

	attrs, diags := blk.Remain.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %q: %w", blk.Name, diags)
	}
	if attr, ok := attrs[typeAttr]; ok {
		ty, diags := typeexpr.TypeConstraint(attr.Expr)
		if diags.HasErrors() {
			return nil, fmt.Errorf("node %q: invalid type: %w", blk.Name, diags)
		}
		logger.Debug("Parsed element type.", "type", ty.FriendlyName())
		n.ElemType = ty
		delete(attrs, typeAttr)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("node %q: setting %q: %w", blk.Name, name, diags)
		}
		n.Settings[name] = val
	}

	if blk.Connect != nil {
		wires, err := translateConnect(blk.Connect.Body)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", blk.Name, err)
		}
		n.Inputs = wires
	}
	return n, nil
}

// translateConnect reads "input = node.output" attributes.
func translateConnect(body hcl.Body) ([]config.Wire, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	wires := make([]config.Wire, 0, len(attrs))
	for input, attr := range attrs {
		traversal, diags := hcl.AbsTraversalForExpr(attr.Expr)
		if diags.HasErrors() {
			return nil, fmt.Errorf("connect %q: %w", input, diags)
		}
		if len(traversal) != 2 {
			return nil, fmt.Errorf("connect %q: want <node>.<output>, got %d parts", input, len(traversal))
		}
		step, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			return nil, fmt.Errorf("connect %q: want <node>.<output>", input)
		}
		wires = append(wires, config.Wire{Input: input, FromNode: traversal.RootName(), FromOutput: step.Name})
	}
	sort.Slice(wires, func(i, j int) bool { return wires[i].Input < wires[j].Input })
	return wires, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all graph
// files found. Explicitly named files are accepted whatever their extension.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return allFiles, nil
}
