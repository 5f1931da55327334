// Package kbehavior provides builtin node templates and a registry that builds
// them by name, for catalogs loaded from configuration.
package kbehavior

import (
	"fmt"

	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
)

// Source creates a template with no inputs and one output of kind. Values
// enter a source from outside, through kgraph.Graph.Publish or Link.Update.
//
// Example:
//
//	src := kbehavior.Source(katom.Usize).Create()
//	src.Output(0).Update(katom.UsizeValue(5))
func Source(kind katom.Kind) *knode.SimpleTemplate {
	return knode.NewTemplate("source-"+kind.String(), nil, []katom.Kind{kind}, nil)
}

// SinkState records what a sink received.
type SinkState struct {
	Last  katom.Value
	Count int
}

func (s *SinkState) Reactions() []knode.Reaction {
	return []knode.Reaction{
		func(v katom.Value, _ knode.Outputs) {
			s.Last = v
			s.Count++
		},
	}
}

// Received returns the last value, ok is false if nothing arrived yet.
func (s *SinkState) Received() (katom.Value, bool) {
	return s.Last, s.Count > 0
}

// Sink creates a template with one input of kind and no outputs. Its state is
// a *SinkState.
func Sink(kind katom.Kind) *knode.SimpleTemplate {
	return knode.NewTemplate("sink-"+kind.String(), []katom.Kind{kind}, nil, func() knode.State {
		return &SinkState{}
	})
}

type forward struct{}

func (forward) Reactions() []knode.Reaction {
	return []knode.Reaction{
		func(v katom.Value, out knode.Outputs) {
			for i := range out {
				out.Publish(i, v)
			}
		},
	}
}

// Identity creates a template forwarding its input unchanged.
func Identity(kind katom.Kind) *knode.SimpleTemplate {
	return knode.NewTemplate("identity-"+kind.String(), []katom.Kind{kind}, []katom.Kind{kind}, func() knode.State {
		return forward{}
	})
}

// Fanout creates a template copying its input to n outputs.
func Fanout(kind katom.Kind, n int) *knode.SimpleTemplate {
	out := make([]katom.Kind, n)
	for i := range out {
		out[i] = kind
	}
	return knode.NewTemplate(fmt.Sprintf("fanout%d-%s", n, kind), []katom.Kind{kind}, out, func() knode.State {
		return forward{}
	})
}

// AddState keeps the latest operand of each input.
type AddState struct {
	operands [2]katom.Value
	seen     [2]bool
}

func (s *AddState) Reactions() []knode.Reaction {
	react := func(idx int) knode.Reaction {
		return func(v katom.Value, out knode.Outputs) {
			s.operands[idx] = v
			s.seen[idx] = true
			if s.seen[0] && s.seen[1] {
				out.Publish(0, sum(s.operands[0], s.operands[1]))
			}
		}
	}
	return []knode.Reaction{react(0), react(1)}
}

// Add creates a template with two inputs of a numeric kind and one output of
// the same kind. Once both inputs have a value, every update publishes their
// sum.
func Add(kind katom.Kind) (*knode.SimpleTemplate, error) {
	if !kind.Numeric() {
		return nil, fmt.Errorf("%w: add over %s", ErrNotNumeric, kind)
	}
	return knode.NewTemplate("add-"+kind.String(), []katom.Kind{kind, kind}, []katom.Kind{kind}, func() knode.State {
		return &AddState{}
	}), nil
}

func sum(a, b katom.Value) katom.Value {
	switch a.Kind() {
	case katom.Entity:
		x, _ := a.Entity()
		y, _ := b.Entity()
		return katom.EntityValue(x + y)
	case katom.Usize:
		x, _ := a.Usize()
		y, _ := b.Usize()
		return katom.UsizeValue(x + y)
	case katom.Int:
		x, _ := a.Int()
		y, _ := b.Int()
		return katom.IntValue(x + y)
	case katom.Float:
		x, _ := a.Float()
		y, _ := b.Float()
		return katom.FloatValue(x + y)
	default:
		panic(fmt.Sprintf("kbehavior: sum over %s", a.Kind()))
	}
}

// CounterState counts received values.
type CounterState struct {
	Count uint64
}

func (s *CounterState) Reactions() []knode.Reaction {
	return []knode.Reaction{
		func(_ katom.Value, out knode.Outputs) {
			s.Count++
			out.Publish(0, katom.UsizeValue(s.Count))
		},
	}
}

// Counter creates a template that publishes, as a usize, how many values of
// kind it has received.
func Counter(kind katom.Kind) *knode.SimpleTemplate {
	return knode.NewTemplate("counter-"+kind.String(), []katom.Kind{kind}, []katom.Kind{katom.Usize}, func() knode.State {
		return &CounterState{}
	})
}

type widen struct{}

func (widen) Reactions() []knode.Reaction {
	return []knode.Reaction{
		func(v katom.Value, out knode.Outputs) {
			e, _ := v.Entity()
			out.Publish(0, katom.UsizeValue(uint64(e)))
		},
	}
}

// Widen creates a template converting entities to usize.
func Widen() *knode.SimpleTemplate {
	return knode.NewTemplate("widen", []katom.Kind{katom.Entity}, []katom.Kind{katom.Usize}, func() knode.State {
		return widen{}
	})
}
