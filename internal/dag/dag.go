package dag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCycle is returned when the edges form a cycle.
var ErrCycle = errors.New("cycle detected")

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		seq:        len(g.order),
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.order = append(g.order, id)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.order)
}

// Edges returns the number of distinct edges.
func (g *Graph) Edges() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.edges
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if _, exists := toNode.deps[fromID]; !exists {
		g.edges++
	}
	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependencies returns the IDs id depends on, in insertion order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	return g.neighbours(id, func(n *node) map[string]*node { return n.deps })
}

// Dependents returns the IDs depending on id, in insertion order.
func (g *Graph) Dependents(id string) ([]string, error) {
	return g.neighbours(id, func(n *node) map[string]*node { return n.dependents })
}

func (g *Graph) neighbours(id string, side func(*node) map[string]*node) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	ids := make([]string, 0, len(side(n)))
	for _, m := range bySeq(side(n)) {
		ids = append(ids, m.id)
	}
	return ids, nil
}

// DetectCycles walks the graph depth-first from each node in insertion order
// and reports the first cycle found as the path that closes it, for example
// "cycle detected: a -> b -> a".
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	done := make(map[string]bool, len(g.nodes))
	onPath := make(map[string]int)
	var path []string

	var walk func(n *node) error
	walk = func(n *node) error {
		if done[n.id] {
			return nil
		}
		if at, ok := onPath[n.id]; ok {
			loop := append(append([]string(nil), path[at:]...), n.id)
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(loop, " -> "))
		}
		onPath[n.id] = len(path)
		path = append(path, n.id)
		for _, next := range bySeq(n.dependents) {
			if err := walk(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(onPath, n.id)
		done[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if err := walk(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// TopologicalSort returns every node ID so that each node follows all of its
// dependencies. Among nodes that are ready at the same time, insertion order
// wins, so an already valid order is returned unchanged.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	pending := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		pending[id] = len(n.deps)
	}

	// ready holds insertion positions, kept sorted.
	var ready []int
	for _, id := range g.order {
		if pending[id] == 0 {
			ready = append(ready, g.nodes[id].seq)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		n := g.nodes[g.order[ready[0]]]
		ready = ready[1:]
		sorted = append(sorted, n.id)
		for _, dep := range n.dependents {
			pending[dep.id]--
			if pending[dep.id] == 0 {
				i := sort.SearchInts(ready, dep.seq)
				ready = append(ready, 0)
				copy(ready[i+1:], ready[i:])
				ready[i] = dep.seq
			}
		}
	}

	if len(sorted) != len(g.order) {
		var stuck []string
		for _, id := range g.order {
			if pending[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, fmt.Errorf("%w among nodes: %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return sorted, nil
}

func bySeq(m map[string]*node) []*node {
	out := make([]*node, 0, len(m))
	for _, n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
