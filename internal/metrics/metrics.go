// Package metrics exports drive statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/pullgrid/internal/graph"
	"github.com/vk/pullgrid/internal/scheduler"
)

// Outcome label values of the drives counter.
const (
	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeNotConverged = "not_converged"
	OutcomeCanceled     = "canceled"
)

// Collector is a graph.Observer that records every finished drive. It owns
// its registry so several collectors can coexist in one process.
type Collector struct {
	reg      *prometheus.Registry
	drives   *prometheus.CounterVec
	passes   prometheus.Histogram
	duration prometheus.Histogram
}

var _ graph.Observer = (*Collector)(nil)

// New creates a collector whose metric names are prefixed with namespace.
func New(namespace string) *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		drives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drives_total",
			Help:      "Number of finished drives by outcome.",
		}, []string{"outcome"}),
		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drive_passes",
			Help:      "Scheduler passes needed per drive.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drive_duration_seconds",
			Help:      "Wall time of each drive.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	c.reg.MustRegister(c.drives, c.passes, c.duration)
	return c
}

// DriveFinished implements graph.Observer.
func (c *Collector) DriveFinished(r graph.DriveReport) {
	c.drives.WithLabelValues(Outcome(r.Err)).Inc()
	c.passes.Observe(float64(r.Passes))
	c.duration.Observe(r.Duration.Seconds())
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}

// Outcome classifies a drive error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, scheduler.ErrNotConverged):
		return OutcomeNotConverged
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
