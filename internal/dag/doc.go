// Package dag is a small directed-graph helper keyed by string IDs. The
// builder uses it to order graph-file nodes so that every producer comes
// before its consumers, and to report cycles before any node is created.
package dag
