package knode

import (
	"log/slog"

	"github.com/birdayz/kgraph/katom"
)

// PublishFunc delivers a value to the sinks of a link.
type PublishFunc func(l *Link, v katom.Value) Delivery

// Interceptor observes or alters a single publish on a link. It receives the
// link, the value being published and next, which fans the value out to the
// remaining interceptors and finally to the sinks. Skipping next drops the
// value; calling it twice delivers it twice.
type Interceptor func(l *Link, v katom.Value, next PublishFunc) Delivery

// InterceptorChain is an ordered list of interceptors applied to every
// publish of a link.
type InterceptorChain struct {
	interceptors []Interceptor
}

// ChainInterceptors returns a chain in which interceptors[0] sees each
// publish first and the fan-out last.
func ChainInterceptors(interceptors ...Interceptor) *InterceptorChain {
	return &InterceptorChain{
		interceptors: interceptors,
	}
}

// Execute publishes v on l through the chain and ends in fanout, returning
// whatever Delivery the outermost interceptor reports.
func (c *InterceptorChain) Execute(l *Link, v katom.Value, fanout PublishFunc) Delivery {
	publish := fanout
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		publish = wrap(c.interceptors[i], publish)
	}
	return publish(l, v)
}

func wrap(ic Interceptor, next PublishFunc) PublishFunc {
	return func(l *Link, v katom.Value) Delivery {
		return ic(l, v, next)
	}
}

// LoggingInterceptor logs every publish and its delivery counts at debug level.
func LoggingInterceptor(logger *slog.Logger) Interceptor {
	return func(l *Link, v katom.Value, next PublishFunc) Delivery {
		d := next(l, v)
		logger.Debug("Published value",
			"kind", l.Kind(),
			"value", v,
			"delivered", d.Delivered,
			"dangling", d.Dangling,
		)
		return d
	}
}
