package kgraph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/birdayz/kgraph/knode"
	"go.uber.org/multierr"
)

// Validate checks the wiring of the owned nodes. It reports a cycle, which
// would make a publish recurse without bound, and every input port that is
// not fed by a live link.
func (g *Graph) Validate() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs error
	if err := g.detectCycles(); err != nil {
		errs = multierr.Append(errs, err)
	}
	for _, n := range g.nodes {
		for i := 0; i < n.NumInputs(); i++ {
			if _, fed := n.Input(i); !fed {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrUnfedInput, knode.InParams(n)[i]))
			}
		}
	}
	return errs
}

// detectCycles uses depth-first search over the owned nodes.
func (g *Graph) detectCycles() error {
	children := g.children()
	visited := make(map[*knode.Node]bool, len(g.nodes))
	onStack := make(map[*knode.Node]bool, len(g.nodes))

	var dfs func(*knode.Node, []*knode.Node) error
	dfs = func(n *knode.Node, path []*knode.Node) error {
		visited[n] = true
		onStack[n] = true
		path = append(path, n)

		for _, child := range children[n] {
			if !visited[child] {
				if err := dfs(child, path); err != nil {
					return err
				}
			} else if onStack[child] {
				names := make([]string, 0, len(path)+1)
				for _, p := range append(path, child) {
					names = append(names, p.Name())
				}
				return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(names, " -> "))
			}
		}

		onStack[n] = false
		return nil
	}

	for _, n := range g.nodes {
		if !visited[n] {
			if err := dfs(n, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// Order returns the owned nodes in topological order using Kahn's algorithm.
// Ties keep insertion order. It returns ErrCycleDetected if no order exists.
func (g *Graph) Order() ([]*knode.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	children := g.children()
	position := make(map[*knode.Node]int, len(g.nodes))
	inDegree := make(map[*knode.Node]int, len(g.nodes))
	for i, n := range g.nodes {
		position[n] = i
		inDegree[n] = 0
	}
	for _, cs := range children {
		for _, c := range cs {
			inDegree[c]++
		}
	}

	var queue []*knode.Node
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	result := make([]*knode.Node, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)

		for _, c := range children[n] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = insertByPosition(queue, c, position)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("%w: topological sort failed", ErrCycleDetected)
	}
	return result, nil
}

func insertByPosition(queue []*knode.Node, n *knode.Node, position map[*knode.Node]int) []*knode.Node {
	idx := len(queue)
	for i, q := range queue {
		if position[q] > position[n] {
			idx = i
			break
		}
	}
	return slices.Insert(queue, idx, n)
}
