// Package config defines the format-agnostic model of a graph file, along
// with the Loader and Writer interfaces implemented by concrete formats.
//
// The Model is what the builder consumes to reconstruct a live graph and
// what a snapshot of a live graph produces. Concrete implementations, such as
// for HCL, are provided in separate packages.
package config
