package kgraph

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/birdayz/kgraph/internal/metrics"
	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
	"github.com/prometheus/client_golang/prometheus"
)

// Graph owns a set of nodes and serializes wiring and publishing on them.
//
// Nodes only reference each other weakly, so a node that is neither held by
// a Graph nor by the caller is collected; its callbacks then become no-ops.
// A Graph keeps every added node alive until Remove.
//
// Reactions run synchronously inside Publish and must not call back into the
// same Graph.
type Graph struct {
	mu sync.Mutex

	log          *slog.Logger
	registerer   prometheus.Registerer
	interceptors []knode.Interceptor

	nodes []*knode.Node
	owned map[*knode.Node]struct{}
}

// New creates an empty graph.
// Returns an error if the metrics cannot be registered.
func New(opts ...Option) (*Graph, error) {
	g := &Graph{
		log:   NullLogger(),
		owned: make(map[*knode.Node]struct{}),
	}

	for _, opt := range opts {
		opt(g)
	}

	chain := []knode.Interceptor{}
	if g.registerer != nil {
		m, err := metrics.New(g.registerer)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		chain = append(chain, m.Interceptor())
	}
	chain = append(chain, knode.LoggingInterceptor(g.log.WithGroup("link")))
	g.interceptors = append(chain, g.interceptors...)

	return g, nil
}

// MustNew creates a graph, panicking on configuration errors.
func MustNew(opts ...Option) *Graph {
	g, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Add creates a node from t and takes ownership of it.
func (g *Graph) Add(t knode.Template) *knode.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(t)
}

func (g *Graph) add(t knode.Template) *knode.Node {
	n := t.Create()
	for _, l := range n.Outputs() {
		l.Intercept(g.interceptors...)
	}
	g.nodes = append(g.nodes, n)
	g.owned[n] = struct{}{}
	g.log.Debug("Added node", "node", n.Name(), "template", knode.Describe(t))
	return n
}

// Remove releases n. Links feeding it keep their sinks but stop delivering
// once n is collected. It reports whether n belonged to the graph.
func (g *Graph) Remove(n *knode.Node) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remove(n)
}

func (g *Graph) remove(n *knode.Node) bool {
	if _, ok := g.owned[n]; !ok {
		return false
	}
	delete(g.owned, n)
	g.nodes = slices.DeleteFunc(g.nodes, func(x *knode.Node) bool { return x == n })
	g.log.Debug("Removed node", "node", n.Name())
	return true
}

// Nodes returns the owned nodes in insertion order.
func (g *Graph) Nodes() []*knode.Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.nodes)
}

// Len returns the number of owned nodes.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Attach wires from to to, see knode.Attach. Both nodes must belong to g.
func (g *Graph) Attach(from knode.OutputPort, to knode.InputPort) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attach(from, to)
}

func (g *Graph) attach(from knode.OutputPort, to knode.InputPort) error {
	if err := g.checkOwned(from.Node()); err != nil {
		return fmt.Errorf("attach %s: %w", from, err)
	}
	if err := g.checkOwned(to.Node()); err != nil {
		return fmt.Errorf("attach %s: %w", to, err)
	}
	if err := knode.Attach(from, to); err != nil {
		return err
	}
	g.log.Debug("Attached ports", "from", from.String(), "to", to.String())
	return nil
}

func (g *Graph) checkOwned(n *knode.Node) error {
	if n == nil {
		return ErrUnknownNode
	}
	if _, ok := g.owned[n]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, n.Name())
	}
	return nil
}

// Publish injects v into output idx of n and propagates it synchronously.
// Unlike Link.Update it reports wiring mistakes as errors.
func (g *Graph) Publish(n *knode.Node, idx int, v katom.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkOwned(n); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	link := n.Output(idx)
	if link == nil {
		return fmt.Errorf("publish: %w: %s has %d outputs, got %d", ErrPortOutOfRange, n.Name(), n.NumOutputs(), idx)
	}
	if link.Kind() != v.Kind() {
		return fmt.Errorf("publish: %w: %s output %d carries %s, got %s", ErrTypeMismatch, n.Name(), idx, link.Kind(), v)
	}

	link.Update(v)
	return nil
}
