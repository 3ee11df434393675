package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vk/pullgrid/internal/ctxlog"
	"github.com/vk/pullgrid/internal/node"
	"github.com/vk/pullgrid/internal/port"
	"github.com/vk/pullgrid/internal/scheduler"
	"github.com/zclconf/go-cty/cty"
)

// Graph is an ordered collection of live nodes.
type Graph struct {
	nodes     []node.Node
	index     map[string]int
	sched     scheduler.Scheduler
	observers []Observer
	driving   bool
}

var _ node.Graph = (*Graph)(nil)

// New creates an empty graph.
func New(opts ...Option) (*Graph, error) {
	o := options{mode: scheduler.ModeSweep}
	for _, opt := range opts {
		opt(&o)
	}
	sched, err := scheduler.New(o.mode, o.maxPasses)
	if err != nil {
		return nil, err
	}
	return &Graph{
		index:     make(map[string]int),
		sched:     sched,
		observers: o.observers,
	}, nil
}

// NewInput creates an input port for a node being bound to g.
func (g *Graph) NewInput(owner, name string, typ cty.Type) *port.Input {
	return port.NewInput(port.Ref{Node: owner, Port: name}, typ, g.touch(owner))
}

// NewOutput creates an output port for a node being bound to g.
func (g *Graph) NewOutput(owner, name string, typ cty.Type) *port.Output {
	return port.NewOutput(port.Ref{Node: owner, Port: name}, typ, g.touch(owner))
}

func (g *Graph) touch(owner string) func() {
	return func() { g.sched.Touch(owner) }
}

// AddNode appends a live node bound to g.
func (g *Graph) AddNode(n node.Node) error {
	if n == nil {
		return addError("", ErrNilNode)
	}
	name := n.Name()
	if i, ok := g.index[name]; ok {
		if g.nodes[i] == n {
			return addError(name, ErrNodeExists)
		}
		return addError(name, ErrDuplicateName)
	}
	if owner := n.Graph(); owner == nil || owner != node.Graph(g) {
		return addError(name, ErrForeignNode)
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.sched.Touch(name)
	return nil
}

// AddCopyOf clones tpl into g under name and appends the copy.
func (g *Graph) AddCopyOf(tpl node.Node, name string) (node.Node, error) {
	if tpl == nil {
		return nil, addError(name, ErrNilNode)
	}
	if _, ok := g.index[name]; ok {
		return nil, addError(name, ErrDuplicateName)
	}
	n, err := tpl.Clone(g, name)
	if err != nil {
		return nil, fmt.Errorf("clone %q as %q: %w", tpl.Name(), name, err)
	}
	if err := g.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// Node returns the member named name.
func (g *Graph) Node(name string) (node.Node, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Nodes returns the members in topological order.
func (g *Graph) Nodes() []node.Node {
	return slices.Clone(g.nodes)
}

// Len returns the number of members.
func (g *Graph) Len() int { return len(g.nodes) }

// Index returns the position of n, or -1 if n is not a member.
func (g *Graph) Index(n node.Node) int {
	if n == nil {
		return -1
	}
	i, ok := g.index[n.Name()]
	if !ok || g.nodes[i] != n {
		return -1
	}
	return i
}

// Connect wires from.fromPort to to.toPort. Checks run in order: membership,
// ordering, port existence, type compatibility, single producer.
func (g *Graph) Connect(from node.Node, fromPort string, to node.Node, toPort string) error {
	src := port.Ref{Port: fromPort}
	dst := port.Ref{Port: toPort}
	if from != nil {
		src.Node = from.Name()
	}
	if to != nil {
		dst.Node = to.Name()
	}

	fi, ti := g.Index(from), g.Index(to)
	if fi < 0 || ti < 0 {
		return connectError(src, dst, ErrUnknownNode)
	}
	if fi >= ti {
		return connectError(src, dst, fmt.Errorf("%w (%s is #%d, %s is #%d)", ErrBadOrder, src.Node, fi, dst.Node, ti))
	}

	out := from.Outputs()[fromPort]
	if out == nil {
		return connectError(src, dst, fmt.Errorf("%w: no output %q on %s", ErrUnknownPort, fromPort, src.Node))
	}
	in := to.Inputs()[toPort]
	if in == nil {
		return connectError(src, dst, fmt.Errorf("%w: no input %q on %s", ErrUnknownPort, toPort, dst.Node))
	}

	if err := port.Link(out, in); err != nil {
		return connectError(src, dst, err)
	}
	return nil
}

// ConnectNames is Connect with nodes looked up by name.
func (g *Graph) ConnectNames(from, fromPort, to, toPort string) error {
	src, ok := g.Node(from)
	if !ok {
		return connectError(port.Ref{Node: from, Port: fromPort}, port.Ref{Node: to, Port: toPort}, ErrUnknownNode)
	}
	dst, ok := g.Node(to)
	if !ok {
		return connectError(port.Ref{Node: from, Port: fromPort}, port.Ref{Node: to, Port: toPort}, ErrUnknownNode)
	}
	return g.Connect(src, fromPort, dst, toPort)
}

// Drive runs the scheduler until the graph is quiescent. It returns nil
// without doing anything when called while another Drive is running.
func (g *Graph) Drive(ctx context.Context) error {
	if g.driving {
		ctxlog.FromContext(ctx).Debug("nested drive ignored")
		return nil
	}
	g.driving = true
	defer func() { g.driving = false }()

	id := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "drive_id", id)

	start := time.Now()
	passes, err := g.sched.Converge(ctx, g.nodes)
	report := DriveReport{ID: id, Passes: passes, Duration: time.Since(start), Err: err}

	if err != nil {
		logger.Warn("drive failed", "passes", passes, "error", err)
	} else {
		logger.Debug("drive converged", "passes", passes, "duration", report.Duration)
	}
	for _, obs := range g.observers {
		obs.DriveFinished(report)
	}
	return err
}

// Close releases every member implementing io.Closer, last node first.
func (g *Graph) Close() error {
	var errs []error
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if c, ok := g.nodes[i].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %q: %w", g.nodes[i].Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Dump writes the state of every port in topological order.
func (g *Graph) Dump(w io.Writer) error {
	for i, n := range g.nodes {
		if _, err := fmt.Fprintf(w, "#%d %s (%s)\n", i, n.Name(), n.Tag()); err != nil {
			return err
		}
		ins := n.Inputs()
		for _, name := range sortedKeys(ins) {
			in := ins[name]
			if _, err := fmt.Fprintf(w, "  in  %s %s %s\n", name, in.Type().FriendlyName(), in); err != nil {
				return err
			}
		}
		outs := n.Outputs()
		for _, name := range sortedKeys(outs) {
			out := outs[name]
			if _, err := fmt.Fprintf(w, "  out %s %s %s\n", name, out.Type().FriendlyName(), out); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
