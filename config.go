package kgraph

import (
	"log/slog"

	"github.com/birdayz/kgraph/knode"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

// Option is a function that configures a Graph
type Option func(*Graph)

// WithLog sets the logger for the graph
var WithLog = func(log *slog.Logger) Option {
	return func(g *Graph) {
		g.log = log
	}
}

// WithLogr sets a logr logger for the graph. Records are bridged to slog.
var WithLogr = func(log logr.Logger) Option {
	return func(g *Graph) {
		g.log = slog.New(logr.ToSlogHandler(log))
	}
}

// WithMetrics registers link publish counters with reg and counts every
// publish on nodes added afterwards.
var WithMetrics = func(reg prometheus.Registerer) Option {
	return func(g *Graph) {
		g.registerer = reg
	}
}

// WithInterceptors installs interceptors on every output link of nodes added
// to the graph. They run inside the metrics and logging interceptors.
var WithInterceptors = func(interceptors ...knode.Interceptor) Option {
	return func(g *Graph) {
		g.interceptors = append(g.interceptors, interceptors...)
	}
}

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write(p []byte) (int, error) { return len(p), nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}
