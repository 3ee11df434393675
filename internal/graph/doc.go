// Package graph owns an ordered set of live nodes and the wiring between
// their ports, and drives them to quiescence on demand.
//
// # Topology
//
// Nodes are appended with AddNode or AddCopyOf; the insertion order is the
// topological order. Connect only accepts a producer that sits strictly
// before its consumer, which rules out cycles at wiring time. Every wiring
// failure is a *TopologyError wrapping one of the package sentinels, and
// leaves both ports untouched.
//
// # Driving
//
// Drive hands the node order to a scheduler.Scheduler which alternates
// backward demand propagation with forward compute passes until a pass
// produces nothing. A Drive issued while another is in progress (typically
// from inside a node's compute step) returns nil immediately.
//
// # Thread-Safety
//
// A Graph is not safe for concurrent use. All calls, including Drive, must be
// made from one goroutine at a time.
package graph
