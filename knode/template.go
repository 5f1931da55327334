package knode

import (
	"fmt"
	"slices"

	"github.com/birdayz/kgraph/katom"
)

// Template is the blueprint of a node: ordered input and output kinds and a
// factory. Templates are shared read-only by all nodes created from them.
type Template interface {
	Name() string
	InKinds() []katom.Kind
	OutKinds() []katom.Kind
	Create() *Node
}

// SimpleTemplate is a Template backed by a state constructor.
type SimpleTemplate struct {
	name     string
	in       []katom.Kind
	out      []katom.Kind
	newState func() State
}

var _ Template = (*SimpleTemplate)(nil)

// NewTemplate creates a template. newState is called once per created node;
// nil means nodes have no state and no reactions.
func NewTemplate(name string, in, out []katom.Kind, newState func() State) *SimpleTemplate {
	return &SimpleTemplate{
		name:     name,
		in:       slices.Clone(in),
		out:      slices.Clone(out),
		newState: newState,
	}
}

func (t *SimpleTemplate) Name() string { return t.name }

// InKinds returns a copy of the input kinds.
func (t *SimpleTemplate) InKinds() []katom.Kind { return slices.Clone(t.in) }

// OutKinds returns a copy of the output kinds.
func (t *SimpleTemplate) OutKinds() []katom.Kind { return slices.Clone(t.out) }

// Create instantiates a fresh node. The node refers back to t, which is the
// handle every node of this template shares.
func (t *SimpleTemplate) Create() *Node {
	var state State
	if t.newState != nil {
		state = t.newState()
	}
	return Instantiate(t, state)
}

// Rename returns a copy of t with another name and the same ports and state.
func (t *SimpleTemplate) Rename(name string) *SimpleTemplate {
	cp := *t
	cp.name = name
	return &cp
}

func (t *SimpleTemplate) String() string {
	return Describe(t)
}

// Describe renders the signature of a template, e.g. "add(usize, usize) -> (usize)".
func Describe(t Template) string {
	return fmt.Sprintf("%s(%s) -> (%s)", t.Name(), joinKinds(t.InKinds()), joinKinds(t.OutKinds()))
}

func joinKinds(kinds []katom.Kind) string {
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += ", "
		}
		s += k.String()
	}
	return s
}
