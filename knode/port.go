package knode

import (
	"fmt"
	"weak"

	"github.com/birdayz/kgraph/katom"
)

// InputPort identifies one input of one node. It holds the node weakly: a
// link subscribed to the port must not keep the downstream node alive.
type InputPort struct {
	node  weak.Pointer[Node]
	Index int
	Kind  katom.Kind
}

// Node returns the owning node, or nil once it has been collected.
func (p InputPort) Node() *Node { return p.node.Value() }

// markChanged runs the node's callback for this port. It reports false when
// the node is gone.
func (p InputPort) markChanged(v katom.Value) bool {
	n := p.node.Value()
	if n == nil {
		return false
	}
	n.CallbackRef(p.Index)(v)
	return true
}

func (p InputPort) String() string {
	return portString(p.node.Value(), "in", p.Index, p.Kind)
}

// OutputPort identifies one output of one node, held weakly.
type OutputPort struct {
	node  weak.Pointer[Node]
	Index int
	Kind  katom.Kind
}

// Node returns the owning node, or nil once it has been collected.
func (p OutputPort) Node() *Node { return p.node.Value() }

// Link returns the link behind the port, or nil once the node is gone.
func (p OutputPort) Link() *Link {
	n := p.node.Value()
	if n == nil {
		return nil
	}
	return n.Output(p.Index)
}

func (p OutputPort) String() string {
	return portString(p.node.Value(), "out", p.Index, p.Kind)
}

func portString(n *Node, dir string, idx int, kind katom.Kind) string {
	name := "<gone>"
	if n != nil {
		name = n.Name()
	}
	return fmt.Sprintf("%s.%s[%d]:%s", name, dir, idx, kind)
}

// InParams returns the input ports of n, index-aligned with its template's
// input kinds.
func InParams(n *Node) []InputPort {
	self := weak.Make(n)
	kinds := n.template.InKinds()
	ports := make([]InputPort, len(kinds))
	for i, kind := range kinds {
		ports[i] = InputPort{node: self, Index: i, Kind: kind}
	}
	return ports
}

// OutParams returns the output ports of n, index-aligned with its template's
// output kinds.
func OutParams(n *Node) []OutputPort {
	self := weak.Make(n)
	kinds := n.template.OutKinds()
	ports := make([]OutputPort, len(kinds))
	for i, kind := range kinds {
		ports[i] = OutputPort{node: self, Index: i, Kind: kind}
	}
	return ports
}

// Attach subscribes input port to to the link behind output port from.
//
// Kinds must match; a mismatch returns ErrTypeMismatch before anything is
// modified. The kinds checked are those of the link and of the destination
// template, so a port whose Kind field was changed cannot bypass them. Attaching from a node that is already gone is a no-op. An input
// port can be fed by at most one live link. A value already cached on the
// link is not delivered; the input only sees later updates.
func Attach(from OutputPort, to InputPort) error {
	if from.Kind != to.Kind {
		return fmt.Errorf("%w: %s cannot feed %s", ErrTypeMismatch, from, to)
	}

	src := from.node.Value()
	if src == nil {
		return nil
	}
	link := src.Output(from.Index)
	if link == nil {
		return fmt.Errorf("%w: %s", ErrPortOutOfRange, from)
	}
	// Port kinds are only labels; the link and the template decide.
	if link.Kind() != from.Kind {
		return fmt.Errorf("%w: %s is backed by a %s link", ErrTypeMismatch, from, link.Kind())
	}

	dst := to.node.Value()
	if dst != nil {
		if to.Index < 0 || to.Index >= len(dst.inputs) {
			return fmt.Errorf("%w: %s", ErrPortOutOfRange, to)
		}
		if want := dst.template.InKinds()[to.Index]; want != link.Kind() {
			return fmt.Errorf("%w: %s link cannot feed %s input of %s", ErrTypeMismatch, link.Kind(), want, dst.Name())
		}
		if _, wired := dst.Input(to.Index); wired {
			return fmt.Errorf("%w: %s", ErrInputAttached, to)
		}
	}

	link.AddSink(to)
	if dst != nil {
		dst.inputs[to.Index] = weak.Make(link)
	}
	return nil
}

// MustAttach is like Attach but panics on error.
func MustAttach(from OutputPort, to InputPort) {
	if err := Attach(from, to); err != nil {
		panic(err)
	}
}
