package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/pullgrid/internal/node"
)

// DefaultMaxPasses bounds a single convergence run.
const DefaultMaxPasses = 100000

// ErrNotConverged is returned when the pass budget runs out while nodes are
// still producing.
var ErrNotConverged = errors.New("graph did not converge")

// Mode names a scheduling strategy.
type Mode string

const (
	ModeSweep    Mode = "sweep"
	ModeWorklist Mode = "worklist"
)

// ParseMode resolves a strategy name. The empty string selects ModeSweep.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSweep:
		return ModeSweep, nil
	case ModeWorklist:
		return ModeWorklist, nil
	default:
		return "", fmt.Errorf("unknown schedule mode %q (want %q or %q)", s, ModeSweep, ModeWorklist)
	}
}

// Scheduler runs demand propagation and computation passes over a
// topologically ordered node list until nothing more is produced.
//
// Implementations are not safe for concurrent use. The owning graph serializes
// calls to Converge.
type Scheduler interface {
	// Converge runs passes over order and returns how many passes ran.
	// It stops early on a compute error, on context cancellation between
	// passes, or with ErrNotConverged when the budget is exhausted.
	Converge(ctx context.Context, order []node.Node) (int, error)

	// Touch marks the named node as worth visiting on the next pass.
	// Strategies that visit every node may ignore it.
	Touch(name string)
}

// New builds the scheduler for mode. A non-positive maxPasses selects
// DefaultMaxPasses.
func New(mode Mode, maxPasses int) (Scheduler, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	switch mode {
	case "", ModeSweep:
		return NewSweep(maxPasses), nil
	case ModeWorklist:
		return NewWorklist(maxPasses), nil
	default:
		return nil, fmt.Errorf("unknown schedule mode %q", mode)
	}
}

// PropagateDemand walks order backwards, letting every node declare its demand
// and pushing input demand upstream. An output's request is raised to the
// largest demand across all of its consumers, so fan-out siblings never starve.
func PropagateDemand(order []node.Node) {
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		n.DeclareDemand()
		for _, in := range n.Inputs() {
			if in == nil || in.Requested() == 0 {
				continue
			}
			up := in.Upstream()
			if up == nil {
				continue
			}
			up.RequestUpTo(max(up.Requested(), up.DownstreamDemand()))
		}
	}
}

func notConverged(passes int) error {
	return fmt.Errorf("%w after %d passes", ErrNotConverged, passes)
}
