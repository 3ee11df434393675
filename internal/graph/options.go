package graph

import "github.com/vk/pullgrid/internal/scheduler"

type options struct {
	maxPasses int
	mode      scheduler.Mode
	observers []Observer
}

// Option configures a Graph.
type Option func(*options)

// WithMaxPasses bounds every Drive to n passes. Non-positive values select
// scheduler.DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(o *options) { o.maxPasses = n }
}

// WithScheduler selects the scheduling strategy.
func WithScheduler(mode scheduler.Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}
