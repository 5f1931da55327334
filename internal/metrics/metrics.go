// Package metrics exports link publish counters to Prometheus.
package metrics

import (
	"errors"

	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
	"github.com/prometheus/client_golang/prometheus"
)

// LinkMetrics holds Prometheus counters for link publishes, labelled by kind.
type LinkMetrics struct {
	updates    *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	dangling   *prometheus.CounterVec
}

// New creates link metrics and registers them with reg. Counters already
// registered by another graph on the same registerer are shared.
func New(reg prometheus.Registerer) (*LinkMetrics, error) {
	m := &LinkMetrics{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgraph",
			Subsystem: "link",
			Name:      "updates_total",
			Help:      "Total number of values published on links",
		}, []string{"kind"}),

		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgraph",
			Subsystem: "link",
			Name:      "deliveries_total",
			Help:      "Total number of values delivered to live sinks",
		}, []string{"kind"}),

		dangling: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgraph",
			Subsystem: "link",
			Name:      "dangling_total",
			Help:      "Total number of deliveries skipped because the sink node was gone",
		}, []string{"kind"}),
	}

	var err error
	if m.updates, err = register(reg, m.updates); err != nil {
		return nil, err
	}
	if m.deliveries, err = register(reg, m.deliveries); err != nil {
		return nil, err
	}
	if m.dangling, err = register(reg, m.dangling); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// Interceptor counts every publish it wraps.
func (m *LinkMetrics) Interceptor() knode.Interceptor {
	return func(l *knode.Link, v katom.Value, next knode.PublishFunc) knode.Delivery {
		d := next(l, v)
		kind := l.Kind().String()
		m.updates.WithLabelValues(kind).Inc()
		m.deliveries.WithLabelValues(kind).Add(float64(d.Delivered))
		m.dangling.WithLabelValues(kind).Add(float64(d.Dangling))
		return d
	}
}

// Updates returns the update counter for kind.
func (m *LinkMetrics) Updates(kind katom.Kind) prometheus.Counter {
	return m.updates.WithLabelValues(kind.String())
}

// Deliveries returns the delivery counter for kind.
func (m *LinkMetrics) Deliveries(kind katom.Kind) prometheus.Counter {
	return m.deliveries.WithLabelValues(kind.String())
}

// Dangling returns the dangling delivery counter for kind.
func (m *LinkMetrics) Dangling(kind katom.Kind) prometheus.Counter {
	return m.dangling.WithLabelValues(kind.String())
}
