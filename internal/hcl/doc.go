// Package hcl provides the concrete HCL implementation of the graph file
// Loader and Writer defined in the config package.
//
// A graph file is a list of node blocks:
//
//	node "value" "one" {
//	  type  = number
//	  value = 1
//	}
//
//	node "math.add" "sum" {
//	  connect {
//	    a = one.val
//	    b = one.val
//	  }
//	}
//
// The first label is the registry tag, the second the node name. "type" is
// an optional type expression, "connect" maps input names to producer
// outputs, and every other attribute is a setting. Files ending in .json are
// read with the HCL JSON syntax, where types and wires are written as strings.
package hcl
