package scheduler

import (
	"context"

	"github.com/vk/pullgrid/internal/node"
)

// Worklist visits only touched nodes. A node stays pending after its visit if
// it produced, or if every input still holds a value.
//
// Pending marks survive between runs, so values delivered or demand raised
// outside Converge are picked up by the next run.
type Worklist struct {
	maxPasses int
	pending   map[string]struct{}
}

// NewWorklist returns a Worklist bounded to maxPasses passes per run.
func NewWorklist(maxPasses int) *Worklist {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	return &Worklist{maxPasses: maxPasses, pending: make(map[string]struct{})}
}

// Touch implements Scheduler.
func (w *Worklist) Touch(name string) {
	w.pending[name] = struct{}{}
}

// Pending reports whether name is queued for the next pass.
func (w *Worklist) Pending(name string) bool {
	_, ok := w.pending[name]
	return ok
}

// Converge implements Scheduler.
func (w *Worklist) Converge(ctx context.Context, order []node.Node) (int, error) {
	for pass := 1; pass <= w.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return pass - 1, err
		}
		PropagateDemand(order)

		produced := false
		for _, n := range order {
			name := n.Name()
			if _, ok := w.pending[name]; !ok {
				continue
			}
			delete(w.pending, name)

			ok, err := node.ComputeIfReady(ctx, n)
			if err != nil {
				return pass, err
			}
			if ok {
				produced = true
			}
			if ok || stillReady(n) {
				w.pending[name] = struct{}{}
			}
		}
		if !produced {
			return pass, nil
		}
	}
	return w.maxPasses, notConverged(w.maxPasses)
}

func stillReady(n node.Node) bool {
	ins := n.Inputs()
	if len(ins) == 0 {
		return false
	}
	for _, in := range ins {
		if in == nil || in.Remaining() == 0 {
			return false
		}
	}
	return true
}
