package knode

import (
	"fmt"

	"github.com/birdayz/kgraph/katom"
)

// Link is a single-slot broadcast bus owned by one output port. It remembers
// the last published value and fans every update out to its sinks.
//
// Link is NOT safe for concurrent use. Callers that share a graph between
// goroutines must serialize updates and attachments (see kgraph.Graph).
type Link struct {
	kind      katom.Kind
	latest    katom.Value
	hasLatest bool
	sinks     []InputPort

	publish PublishFunc
}

// Delivery summarizes one fan-out.
type Delivery struct {
	// Delivered counts sinks whose node was alive and got the value.
	Delivered int
	// Dangling counts sinks whose node was already collected.
	Dangling int
}

// NewLink creates an empty link carrying values of the given kind.
func NewLink(kind katom.Kind) *Link {
	l := &Link{kind: kind}
	l.publish = fanout
	return l
}

func (l *Link) Kind() katom.Kind { return l.kind }

// Latest returns the last published value. ok is false until the first Update.
func (l *Link) Latest() (v katom.Value, ok bool) {
	return l.latest, l.hasLatest
}

// AddSink subscribes an input port. Subscribing the same port twice delivers
// every update twice; Attach prevents that.
func (l *Link) AddSink(p InputPort) {
	l.sinks = append(l.sinks, p)
}

// SinkCount returns the number of subscribed ports, dangling ones included.
func (l *Link) SinkCount() int { return len(l.sinks) }

// Sinks returns a copy of the subscribed ports in subscription order.
func (l *Link) Sinks() []InputPort {
	out := make([]InputPort, len(l.sinks))
	copy(out, l.sinks)
	return out
}

// Update publishes v: it replaces the cached value and synchronously invokes
// every sink subscribed at the time of the call, in subscription order.
//
// A value of the wrong kind is a broken wiring invariant and panics with an
// error wrapping ErrTypeMismatch.
func (l *Link) Update(v katom.Value) Delivery {
	if v.Kind() != l.kind {
		panic(fmt.Errorf("%w: link carries %s, got %s", ErrTypeMismatch, l.kind, v))
	}
	l.latest = v
	l.hasLatest = true
	return l.publish(l, v)
}

// Intercept installs interceptors around the fan-out of this link. It
// replaces any chain installed before.
func (l *Link) Intercept(interceptors ...Interceptor) {
	if len(interceptors) == 0 {
		l.publish = fanout
		return
	}
	chain := ChainInterceptors(interceptors...)
	l.publish = func(link *Link, v katom.Value) Delivery {
		return chain.Execute(link, v, fanout)
	}
}

func fanout(l *Link, v katom.Value) Delivery {
	var d Delivery
	// Sinks appended by a callback during this loop are not part of this update.
	sinks := l.sinks
	for _, sink := range sinks {
		if sink.markChanged(v) {
			d.Delivered++
		} else {
			d.Dangling++
		}
	}
	return d
}
