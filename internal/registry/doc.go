// Package registry maps type tags to template nodes.
//
// Modules register their templates at startup; graph files then name a tag
// for every node and the registry clones the matching template into the graph
// being built. Registration mistakes are programmer errors and panic, the
// same way a duplicate http.Handle does. Lookups and instantiation return
// errors.
package registry
