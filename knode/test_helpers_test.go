package knode

import (
	"github.com/birdayz/kgraph/katom"
)

// takeState records the last usize received on its single input.
type takeState struct {
	received uint64
	calls    int
	seen     []katom.Value
}

func (s *takeState) Reactions() []Reaction {
	return []Reaction{
		func(v katom.Value, _ Outputs) {
			n, ok := v.Usize()
			if !ok {
				panic("takeState: not a usize")
			}
			s.received = n
			s.calls++
			s.seen = append(s.seen, v)
		},
	}
}

// relayState forwards its input to output 0, incremented by one.
type relayState struct{}

func (relayState) Reactions() []Reaction {
	return []Reaction{
		func(v katom.Value, out Outputs) {
			n, _ := v.Usize()
			out.Publish(0, katom.UsizeValue(n+1))
		},
	}
}

// tooManyState returns a reaction for a port that does not exist.
type tooManyState struct{}

func (tooManyState) Reactions() []Reaction {
	return []Reaction{func(katom.Value, Outputs) {}, func(katom.Value, Outputs) {}}
}

// countingState counts how often Reactions is called.
type countingState struct {
	derived int
}

func (s *countingState) Reactions() []Reaction {
	s.derived++
	return nil
}

func newEmitUsize() *SimpleTemplate {
	return NewTemplate("emit-usize", nil, []katom.Kind{katom.Usize}, nil)
}

func newTakeUsize() *SimpleTemplate {
	return NewTemplate("take-usize", []katom.Kind{katom.Usize}, nil, func() State {
		return &takeState{}
	})
}

func newRelayUsize() *SimpleTemplate {
	return NewTemplate("relay-usize", []katom.Kind{katom.Usize}, []katom.Kind{katom.Usize}, func() State {
		return relayState{}
	})
}

func newTakeEntity() *SimpleTemplate {
	return NewTemplate("take-entity", []katom.Kind{katom.Entity}, nil, nil)
}

func takeOf(n *Node) *takeState {
	return n.State().(*takeState)
}
