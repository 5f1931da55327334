package kgraph

import (
	"errors"

	"github.com/birdayz/kgraph/knode"
)

// Wiring errors, shared with knode so callers match a single sentinel.
var (
	ErrTypeMismatch   = knode.ErrTypeMismatch
	ErrPortOutOfRange = knode.ErrPortOutOfRange
	ErrInputAttached  = knode.ErrInputAttached
)

var (
	// ErrUnknownNode is returned when a node does not belong to the graph.
	ErrUnknownNode = errors.New("node not in graph")
	// ErrUnsatisfiedInput is returned when no earlier output can feed an input
	// of an instantiated sequence.
	ErrUnsatisfiedInput = errors.New("unsatisfied input")
	// ErrUnfedInput is reported by Validate for input ports without a live link.
	ErrUnfedInput = errors.New("input port not fed")
	// ErrCycleDetected is reported by Validate when updates can loop.
	ErrCycleDetected = errors.New("cycle detected")
)
