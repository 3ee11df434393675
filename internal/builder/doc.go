/*
Package builder turns a config.Model into a live *graph.Graph and back.

Graph construction is a multi-phase process:

 1. Ordering: every declaration becomes a vertex of a dag.Graph and every
    wire an edge from the producing node to the consuming one. A stable
    topological sort gives the insertion order, so producers are always added
    before their consumers regardless of where they appear in the file.

 2. Node Creation: each declaration is instantiated through the registry,
    reconfigured with its element type and settings when it has any.

 3. Linking: every wire is replayed with Graph.Connect, which enforces type
    compatibility and the single-producer rule.

Snapshot performs the reverse mapping so a built graph can be saved.
*/
package builder
