package port

import "errors"

var (
	// ErrEmptyBuffer is returned by Input.Pop when nothing is buffered. It
	// signals a defect in the calling node's compute logic.
	ErrEmptyBuffer = errors.New("empty buffer")

	// ErrTypeMismatch is returned when an output type does not conform to an
	// input type, or a pushed value does not conform to its output.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrAlreadyConnected is returned when a second producer is linked to an
	// input that already has one.
	ErrAlreadyConnected = errors.New("input already connected")
)
