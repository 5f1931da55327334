package knode

import "errors"

// Sentinel errors for wiring failures.
var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrPortOutOfRange = errors.New("port index out of range")
	ErrInputAttached  = errors.New("input port already attached")
	ErrReactionCount  = errors.New("more reactions than input ports")
)
