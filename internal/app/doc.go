// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load the
// graph files, build the graph, pull one value from every requested return
// node, and optionally save the graph back out. It is decoupled from any
// specific entrypoint like a CLI.
package app
