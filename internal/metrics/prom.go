// Package metrics records solver outcomes as Prometheus metrics.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromSink implements scheduler.Recorder.
type PromSink struct {
	gatherer prometheus.Gatherer
	solves   *prometheus.CounterVec
	nodes    prometheus.Histogram
	seconds  *prometheus.HistogramVec
}

// NewPromSink registers the solver metrics on reg. A nil reg gets a fresh
// registry. Collectors that are already registered are reused.
func NewPromSink(reg *prometheus.Registry) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "weekgrid",
		Name:      "solves_total",
		Help:      "Number of finished solves by status.",
	}, []string{"status"})
	nodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "weekgrid",
		Name:      "search_nodes",
		Help:      "Search nodes visited per solve.",
		Buckets:   prometheus.ExponentialBuckets(10, 10, 7),
	})
	seconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "weekgrid",
		Name:      "solve_duration_seconds",
		Help:      "Wall time of the search.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	var err error
	if solves, err = register(reg, solves); err != nil {
		return nil, err
	}
	if nodes, err = register(reg, nodes); err != nil {
		return nil, err
	}
	if seconds, err = register(reg, seconds); err != nil {
		return nil, err
	}

	return &PromSink{gatherer: reg, solves: solves, nodes: nodes, seconds: seconds}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (s *PromSink) ObserveSolve(status string, nodes int64, elapsed time.Duration) {
	s.solves.WithLabelValues(status).Inc()
	s.nodes.Observe(float64(nodes))
	s.seconds.WithLabelValues(status).Observe(elapsed.Seconds())
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func (s *PromSink) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
