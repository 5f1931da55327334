package kgraph

import (
	"fmt"

	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
	"go.uber.org/multierr"
)

// Pipeline is the result of instantiating a template sequence.
type Pipeline struct {
	// Nodes in sequence order.
	Nodes []*knode.Node
	// Leftover lists the output ports no later node consumed.
	Leftover []knode.OutputPort
}

// Find returns the nodes whose template is called name, in sequence order.
func (p *Pipeline) Find(name string) []*knode.Node {
	var out []*knode.Node
	for _, n := range p.Nodes {
		if n.Template().Name() == name {
			out = append(out, n)
		}
	}
	return out
}

// Instantiate creates one node per template of seq, in order, and wires each
// input to the oldest earlier output of the same kind that is not consumed
// yet. This mirrors the resource accounting of ksynth: a sequence it reports
// instantiates without unsatisfied inputs.
//
// If any input cannot be satisfied, every such input is reported, each
// wrapping ErrUnsatisfiedInput, and no node is kept.
func (g *Graph) Instantiate(seq []knode.Template) (*Pipeline, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := &Pipeline{Nodes: make([]*knode.Node, 0, len(seq))}
	available := map[katom.Kind][]knode.OutputPort{}
	consumed := map[knode.OutputPort]bool{}

	var errs error
	for pos, t := range seq {
		n := g.add(t)
		p.Nodes = append(p.Nodes, n)

		for _, in := range knode.InParams(n) {
			queue := available[in.Kind]
			if len(queue) == 0 {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s (position %d)", ErrUnsatisfiedInput, in, pos))
				continue
			}
			from := queue[0]
			available[in.Kind] = queue[1:]
			if err := g.attach(from, in); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			consumed[from] = true
		}

		for _, out := range knode.OutParams(n) {
			available[out.Kind] = append(available[out.Kind], out)
		}
	}

	if errs != nil {
		for _, n := range p.Nodes {
			g.remove(n)
		}
		return nil, errs
	}

	for _, n := range p.Nodes {
		for _, out := range knode.OutParams(n) {
			if !consumed[out] {
				p.Leftover = append(p.Leftover, out)
			}
		}
	}

	g.log.Info("Instantiated pipeline", "nodes", len(p.Nodes), "leftover", len(p.Leftover))
	return p, nil
}
