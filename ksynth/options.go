package ksynth

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultRounds caps the pipeline length explored by a search.
const DefaultRounds = 4

// Policy decides which successors are reported as results.
type Policy int

const (
	// ReportBalanced reports sequences in which every produced value was
	// consumed, and keeps extending sequences that still have leftovers.
	ReportBalanced Policy = iota
	// ExtendBalanced keeps extending balanced sequences and reports the ones
	// that leave values unconsumed.
	ExtendBalanced
)

func (p Policy) isResult(balanced bool) bool {
	if p == ExtendBalanced {
		return !balanced
	}
	return balanced
}

func (p Policy) String() string {
	switch p {
	case ReportBalanced:
		return "report"
	case ExtendBalanced:
		return "extend"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts the names returned by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "report":
		return ReportBalanced, nil
	case "extend":
		return ExtendBalanced, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (want report or extend)", s)
	}
}

// Frontier decides how much of the queue a round expands.
type Frontier int

const (
	// FrontierLevel expands every queued entry each round, so round n sees
	// every sequence of length n the policy kept extending. Result sequences
	// are never extended: under ReportBalanced a balanced prefix such as
	// [A B] ends its branch and [A B A B] is not produced.
	FrontierLevel Frontier = iota
	// FrontierSingle expands one queued entry per round.
	FrontierSingle
)

func (f Frontier) String() string {
	switch f {
	case FrontierLevel:
		return "level"
	case FrontierSingle:
		return "single"
	default:
		return fmt.Sprintf("frontier(%d)", int(f))
	}
}

// ParseFrontier accepts the names returned by Frontier.String.
func ParseFrontier(s string) (Frontier, error) {
	switch strings.ToLower(s) {
	case "level":
		return FrontierLevel, nil
	case "single":
		return FrontierSingle, nil
	default:
		return 0, fmt.Errorf("unknown frontier %q (want level or single)", s)
	}
}

// Option configures a search.
type Option func(*config)

type config struct {
	rounds      int
	policy      Policy
	frontier    Frontier
	parallelism int
	log         *slog.Logger
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		rounds:      DefaultRounds,
		policy:      ReportBalanced,
		frontier:    FrontierLevel,
		parallelism: 1,
		log:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRounds sets the number of search rounds. Values below one disable the search.
func WithRounds(n int) Option {
	return func(c *config) {
		c.rounds = n
	}
}

// WithPolicy sets the completion policy.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithFrontier sets the frontier expansion mode.
func WithFrontier(f Frontier) Option {
	return func(c *config) {
		c.frontier = f
	}
}

// WithParallelism expands up to n frontier entries concurrently.
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

// WithLogger sets the logger used for catalog and round diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}
