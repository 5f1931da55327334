package knode

import (
	"fmt"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/birdayz/kgraph/katom"
)

// Reaction handles a value arriving on one input port. It may publish to the
// node's outputs.
type Reaction func(v katom.Value, out Outputs)

// State is the private state of a node. Reactions is called exactly once per
// node, at construction, and returns one reaction per input port in port
// order. Returning fewer reactions than ports leaves the remaining ports
// without a reaction.
type State interface {
	Reactions() []Reaction
}

// Callback is the type-erased reaction bound to a node. Input ports invoke
// it without knowing the node's state type.
type Callback func(v katom.Value)

// Outputs is the ordered list of output links of a node.
type Outputs []*Link

// Publish updates output idx with v. It panics like Link.Update on a kind
// mismatch and when idx is out of range.
func (o Outputs) Publish(idx int, v katom.Value) Delivery {
	if idx < 0 || idx >= len(o) {
		panic(fmt.Errorf("%w: output %d of %d", ErrPortOutOfRange, idx, len(o)))
	}
	return o[idx].Update(v)
}

var nodeSeq atomic.Uint64

// Node is an instantiated template: fixed input slots, owned output links,
// private state and one callback per input port.
//
// Outputs are owned by the node. Input slots only point weakly at links owned
// by upstream nodes, and callbacks only point weakly at the node, so a
// downstream node never keeps an upstream one alive and vice versa.
type Node struct {
	id       uint64
	template Template
	inputs   []weak.Pointer[Link]
	outputs  Outputs
	state    State

	callbacksOnce sync.Once
	callbacks     []Callback
}

// Instantiate builds a node for template t around state. Template
// implementations call it from Create.
func Instantiate(t Template, state State) *Node {
	inKinds := t.InKinds()
	outKinds := t.OutKinds()

	n := &Node{
		id:       nodeSeq.Add(1),
		template: t,
		inputs:   make([]weak.Pointer[Link], len(inKinds)),
		outputs:  make(Outputs, len(outKinds)),
		state:    state,
	}
	for i, kind := range outKinds {
		n.outputs[i] = NewLink(kind)
	}
	n.initCallbacks()
	return n
}

// initCallbacks derives the node's callbacks from its state. Only the first
// call has an effect: every callback shares the same state, so deriving them
// again would duplicate side effects.
func (n *Node) initCallbacks() {
	n.callbacksOnce.Do(func() {
		var reactions []Reaction
		if n.state != nil {
			reactions = n.state.Reactions()
		}
		if len(reactions) > len(n.inputs) {
			panic(fmt.Errorf("%w: template %s has %d inputs, state returned %d reactions",
				ErrReactionCount, n.template.Name(), len(n.inputs), len(reactions)))
		}

		self := weak.Make(n)
		n.callbacks = make([]Callback, len(n.inputs))
		for i := range n.callbacks {
			var reaction Reaction
			if i < len(reactions) {
				reaction = reactions[i]
			}
			n.callbacks[i] = func(v katom.Value) {
				if reaction == nil {
					return
				}
				node := self.Value()
				if node == nil {
					return
				}
				reaction(v, node.outputs)
			}
		}
	})
}

// ID is unique per process.
func (n *Node) ID() uint64 { return n.id }

func (n *Node) Template() Template { return n.template }

// Name is the template name followed by the node ID.
func (n *Node) Name() string {
	return fmt.Sprintf("%s#%d", n.template.Name(), n.id)
}

// State returns the private state. Callers type-assert it to the concrete
// state of the template.
func (n *Node) State() State { return n.state }

func (n *Node) NumInputs() int { return len(n.inputs) }

func (n *Node) NumOutputs() int { return len(n.outputs) }

// Outputs returns the node's output links.
func (n *Node) Outputs() Outputs { return n.outputs }

// Output returns output link idx, or nil when idx is out of range.
func (n *Node) Output(idx int) *Link {
	if idx < 0 || idx >= len(n.outputs) {
		return nil
	}
	return n.outputs[idx]
}

// Input returns the link feeding input idx. ok is false when the port was
// never attached or its upstream node is gone.
func (n *Node) Input(idx int) (l *Link, ok bool) {
	if idx < 0 || idx >= len(n.inputs) {
		return nil, false
	}
	l = n.inputs[idx].Value()
	return l, l != nil
}

// CallbackRef returns the callback for input idx.
func (n *Node) CallbackRef(idx int) Callback {
	return n.callbacks[idx]
}

func (n *Node) String() string { return n.Name() }
