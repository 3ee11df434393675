package dag

import "sync"

// Graph is a directed graph over string IDs, safe for concurrent use.
// Sorting and cycle reports follow insertion order so results are
// reproducible.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	order []string
	edges int
}

// node is one vertex. Callers address vertices by ID only.
type node struct {
	id         string
	seq        int // insertion position
	deps       map[string]*node
	dependents map[string]*node
}
