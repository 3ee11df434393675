// Package node defines the compute contract shared by every kind of node in
// a graph.
//
// A node is either a template or live. Templates are prototypes kept by the
// registry: they know their tag and configuration but own no ports. Live
// nodes are produced by Clone, are bound to exactly one Graph for their
// whole lifetime, and own fresh, disconnected ports obtained from it.
//
// Node kinds embed Base, declare their ports in their constructor and
// implement ComputeNext and Clone. Base supplies the "simple node" demand
// policy: whatever the most demanding output asks for is requested from
// every input. Kinds with other consumption ratios override DeclareDemand.
package node
