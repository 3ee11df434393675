package scheduler

import (
	"context"

	"github.com/vk/pullgrid/internal/node"
)

// Sweep visits every node on every pass.
type Sweep struct {
	maxPasses int
}

// NewSweep returns a Sweep bounded to maxPasses passes per run.
func NewSweep(maxPasses int) *Sweep {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	return &Sweep{maxPasses: maxPasses}
}

// Touch is a no-op; every node is visited anyway.
func (s *Sweep) Touch(string) {}

// Converge implements Scheduler.
func (s *Sweep) Converge(ctx context.Context, order []node.Node) (int, error) {
	for pass := 1; pass <= s.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return pass - 1, err
		}
		PropagateDemand(order)

		produced := false
		for _, n := range order {
			ok, err := node.ComputeIfReady(ctx, n)
			if err != nil {
				return pass, err
			}
			produced = produced || ok
		}
		if !produced {
			return pass, nil
		}
	}
	return s.maxPasses, notConverged(s.maxPasses)
}
