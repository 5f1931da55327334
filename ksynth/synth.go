package ksynth

import (
	"context"
	"log/slog"

	"github.com/birdayz/kgraph/knode"
	"golang.org/x/sync/errgroup"
)

// Candidate is an ordered template sequence in which every consumed kind was
// produced by an earlier template.
type Candidate []knode.Template

// Names returns the template names of c.
func (c Candidate) Names() []string {
	names := make([]string, len(c))
	for i, t := range c {
		names[i] = t.Name()
	}
	return names
}

// Stats describes one search.
type Stats struct {
	// Rounds is the number of rounds that expanded at least one entry.
	Rounds int
	// Expanded is the number of frontier entries expanded.
	Expanded int
	// Successors is the number of successors derived, results included.
	Successors int
	// FrontierLeft is the number of entries still queued when the round cap
	// was reached. Non-zero means longer pipelines were left unexplored.
	FrontierLeft int
}

// Result is the outcome of Search.
type Result struct {
	Candidates []Candidate
	Stats      Stats
}

type entry struct {
	template knode.Template
	in       Multiset
	out      Multiset
}

type frontierEntry struct {
	available Multiset
	path      Candidate
}

type successor struct {
	frontierEntry
	balanced bool
}

// GenerateGraphs proposes template sequences built from catalog whose kinds
// chain together. See Search for the algorithm and options.
func GenerateGraphs(catalog []knode.Template, opts ...Option) []Candidate {
	res, err := Search(context.Background(), catalog, opts...)
	if err != nil {
		// Only cancellation fails a search, and Background is never cancelled.
		panic(err)
	}
	return res.Candidates
}

// Search runs a breadth-first search over template sequences.
//
// The work queue starts with one entry holding nothing available and an empty
// path. Each round expands frontier entries: every template whose inputs are
// contained in the entry's available kinds yields a successor that consumes
// those inputs, adds the template's outputs and appends the template to the
// path. The completion policy decides whether a successor is a result or is
// queued for further extension. The search stops after the configured number
// of rounds or when the queue is empty; running out of rounds is not an error.
//
// Only context cancellation returns an error.
func Search(ctx context.Context, catalog []knode.Template, opts ...Option) (*Result, error) {
	cfg := newConfig(opts...)

	entries := make([]entry, len(catalog))
	for i, t := range catalog {
		entries[i] = entry{
			template: t,
			in:       MultisetOf(t.InKinds()),
			out:      MultisetOf(t.OutKinds()),
		}
		cfg.log.Debug("Catalog template",
			"template", t.Name(),
			"in", entries[i].in,
			"out", entries[i].out,
		)
	}

	res := &Result{}
	queue := []frontierEntry{{available: Multiset{}}}

	for round := 0; round < cfg.rounds && len(queue) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var batch []frontierEntry
		if cfg.frontier == FrontierSingle {
			batch, queue = queue[:1], queue[1:]
		} else {
			batch, queue = queue, nil
		}

		expansions, err := expandAll(ctx, cfg.parallelism, entries, batch)
		if err != nil {
			return nil, err
		}

		found := 0
		for _, successors := range expansions {
			for _, s := range successors {
				res.Stats.Successors++
				if cfg.policy.isResult(s.balanced) {
					res.Candidates = append(res.Candidates, s.path)
					found++
				} else {
					queue = append(queue, s.frontierEntry)
				}
			}
		}
		res.Stats.Rounds++
		res.Stats.Expanded += len(batch)

		cfg.log.Debug("Search round",
			"round", round+1,
			"expanded", len(batch),
			"results", found,
			"frontier", len(queue),
		)
	}

	res.Stats.FrontierLeft = len(queue)
	return res, nil
}

// expandAll expands every entry of batch. The result is index-aligned with
// batch, so the candidate order does not depend on parallelism.
func expandAll(ctx context.Context, parallelism int, entries []entry, batch []frontierEntry) ([][]successor, error) {
	out := make([][]successor, len(batch))
	if parallelism <= 1 || len(batch) <= 1 {
		for i, fe := range batch {
			out[i] = expand(entries, fe)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, fe := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = expand(entries, fe)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func expand(entries []entry, fe frontierEntry) []successor {
	var out []successor
	for _, e := range entries {
		if !Contains(fe.available, e.in) {
			continue
		}
		next := fe.available.Apply(e.in, e.out)

		path := make(Candidate, len(fe.path)+1)
		copy(path, fe.path)
		path[len(fe.path)] = e.template

		out = append(out, successor{
			frontierEntry: frontierEntry{available: next, path: path},
			balanced:      next.Balanced(),
		})
	}
	return out
}
