// Package scheduler drives a graph of pull-based nodes to quiescence.
//
// # How It Works
//
// Each pass has two phases:
//  1. Demand propagation walks the nodes in reverse topological order. Every
//     node declares its own demand, and any input that still wants values
//     raises the request on the output feeding it to the largest demand among
//     that output's consumers.
//  2. Computation walks the nodes in topological order and asks each ready
//     node (every input holds at least one value) to compute once.
//
// Passes repeat until a full pass produces nothing. The pass count is bounded
// so that a node that keeps producing without demand cannot spin forever.
//
// # Strategies
//
//   - Sweep visits every node on every pass.
//   - Worklist visits only nodes that were touched since their last visit: an
//     input received a value, an output's demand rose, or the node produced on
//     the previous pass. Order within a pass stays topological.
package scheduler
