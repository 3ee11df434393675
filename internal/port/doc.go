// Package port implements the typed channel endpoints that carry values
// between nodes.
//
// A logical channel has exactly one producer handle (*Output) and any number
// of consumer handles (*Input). The producer only pushes, a consumer only
// pops. Each consumer owns its own FIFO buffer, so a single push is
// duplicated into every buffer it fans out to.
//
// Both handles keep an outstanding-demand counter. Requests never lower it;
// every delivered value lowers it by one, floored at zero.
//
// Element types are cty types. An output may feed an input when the output
// type conforms to the input type, with cty.DynamicPseudoType on the input
// side accepting anything.
package port
