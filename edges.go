package kgraph

import (
	"github.com/birdayz/kgraph/internal/render"
	"github.com/birdayz/kgraph/knode"
)

// Edge is one subscription: From feeds To.
type Edge struct {
	From knode.OutputPort
	To   knode.InputPort
}

func (e Edge) String() string {
	return e.From.String() + " -> " + e.To.String()
}

// Edges lists who feeds whom among the owned nodes, ordered by source node,
// output port and subscription order.
func (g *Graph) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges()
}

func (g *Graph) edges() []Edge {
	var out []Edge
	for _, n := range g.nodes {
		for i, from := range knode.OutParams(n) {
			for _, sink := range n.Output(i).Sinks() {
				dst := sink.Node()
				if dst == nil {
					continue
				}
				if _, ok := g.owned[dst]; !ok {
					continue
				}
				out = append(out, Edge{From: from, To: sink})
			}
		}
	}
	return out
}

// children returns the owned successors of every owned node, without
// duplicates, in edge order.
func (g *Graph) children() map[*knode.Node][]*knode.Node {
	children := make(map[*knode.Node][]*knode.Node, len(g.nodes))
	seen := map[[2]*knode.Node]bool{}
	for _, e := range g.edges() {
		from, to := e.From.Node(), e.To.Node()
		key := [2]*knode.Node{from, to}
		if seen[key] {
			continue
		}
		seen[key] = true
		children[from] = append(children[from], to)
	}
	return children
}

// Mermaid renders the owned nodes and their edges as a Mermaid flowchart.
func (g *Graph) Mermaid() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	nodes := make([]render.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, render.Node{
			ID:      n.Name(),
			Label:   knode.Describe(n.Template()),
			Inputs:  n.NumInputs(),
			Outputs: n.NumOutputs(),
		})
	}

	var edges []render.Edge
	for _, e := range g.edges() {
		edges = append(edges, render.Edge{
			From:    e.From.Node().Name(),
			FromIdx: e.From.Index,
			To:      e.To.Node().Name(),
			ToIdx:   e.To.Index,
			Kind:    e.From.Kind.String(),
		})
	}

	return render.Mermaid(nodes, edges)
}
