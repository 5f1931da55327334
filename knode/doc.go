// Package knode provides the wiring layer of a typed reactive dataflow graph.
//
// # Overview
//
// Nodes exchange katom.Value instances through links. Every output port of a
// node owns one Link; a Link remembers the last value published into it and
// forwards each update synchronously to the input ports subscribed to it.
//
//	                source node
//	                     |
//	                     v
//	             +---------------+
//	             |     Link      |
//	             |  kind, latest |
//	             +---------------+
//	               |    |    |
//	               v    v    v
//	          input ports -> node callbacks
//
// # Building Nodes
//
// A Template declares ordered input and output kinds and creates nodes:
//
//	emit := knode.NewTemplate("emit", nil, []katom.Kind{katom.Usize}, nil)
//	take := knode.NewTemplate("take", []katom.Kind{katom.Usize}, nil,
//	    func() knode.State { return &takeState{} })
//
//	a, b := emit.Create(), take.Create()
//	knode.MustAttach(knode.OutParams(a)[0], knode.InParams(b)[0])
//	a.Output(0).Update(katom.UsizeValue(5))
//
// A node's State returns one Reaction per input port. Reactions are bound to
// the node exactly once, when the node is created.
//
// # Type Safety
//
// Attach compares the kinds of both ports and returns ErrTypeMismatch without
// touching the link when they differ. Link.Update panics on a value of the
// wrong kind: with ports checked at attach time this can only happen through a
// broken reaction, never through wiring.
//
// # Ownership
//
// Output links are owned by their node. Ports, input slots and callbacks hold
// weak pointers, so a node is collected as soon as its owner (usually a
// kgraph.Graph) drops it. Operations through a port whose node is gone are
// no-ops: Attach does nothing and Update skips the sink.
//
// # Thread Safety
//
// IMPORTANT: nothing in this package is safe for concurrent use. Updates run
// every callback on the caller's goroutine before returning. Share a graph
// between goroutines only behind a single lock, as kgraph.Graph does.
package knode
