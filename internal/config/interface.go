package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific graph file loader.
type Loader interface {
	// Load reads every graph file under the given paths and merges them into
	// one model, preserving file and declaration order.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Writer renders a model in a specific format.
type Writer interface {
	Write(ctx context.Context, w io.Writer, m *Model) error
}
