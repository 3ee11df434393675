package graph

import (
	"errors"
	"fmt"

	"github.com/vk/pullgrid/internal/port"
)

var (
	ErrNilNode       = errors.New("nil node")
	ErrNodeExists    = errors.New("node already added")
	ErrDuplicateName = errors.New("duplicate node name")
	ErrForeignNode   = errors.New("node is not bound to this graph")
	ErrUnknownNode   = errors.New("node is not a member of this graph")
	ErrBadOrder      = errors.New("producer must precede consumer")
	ErrUnknownPort   = errors.New("unknown port")

	// Port-level failures are surfaced unchanged so errors.Is works on
	// either package's sentinel.
	ErrTypeMismatch     = port.ErrTypeMismatch
	ErrAlreadyConnected = port.ErrAlreadyConnected
)

// TopologyError describes a rejected AddNode or Connect call.
type TopologyError struct {
	// Op is "add" or "connect".
	Op string
	// From names the producer port for connect, or just the node for add.
	From port.Ref
	// To names the consumer port for connect.
	To  port.Ref
	Err error
}

func (e *TopologyError) Error() string {
	if e.Op == "connect" {
		return fmt.Sprintf("connect %s -> %s: %v", e.From, e.To, e.Err)
	}
	return fmt.Sprintf("%s node %q: %v", e.Op, e.From.Node, e.Err)
}

func (e *TopologyError) Unwrap() error { return e.Err }

func addError(name string, err error) error {
	return &TopologyError{Op: "add", From: port.Ref{Node: name}, Err: err}
}

func connectError(from, to port.Ref, err error) error {
	return &TopologyError{Op: "connect", From: from, To: to, Err: err}
}
