package ksynth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
)

var (
	emitUsize = knode.NewTemplate("A", nil, []katom.Kind{katom.Usize}, nil)
	takeUsize = knode.NewTemplate("B", []katom.Kind{katom.Usize}, nil, nil)
	idUsize   = knode.NewTemplate("Id", []katom.Kind{katom.Usize}, []katom.Kind{katom.Usize}, nil)
)

func names(cs []Candidate) [][]string {
	out := make([][]string, len(cs))
	for i, c := range cs {
		out[i] = c.Names()
	}
	return out
}

func TestCanGenerateGraphs(t *testing.T) {
	results := GenerateGraphs([]knode.Template{emitUsize, takeUsize})

	assert.Equal(t, [][]string{{"A", "B"}, {"A", "A", "B", "B"}}, names(results))
	assert.True(t, results[0][0] == knode.Template(emitUsize))
	assert.True(t, results[0][1] == knode.Template(takeUsize))
}

func TestResultsAreNotExtended(t *testing.T) {
	catalog := []knode.Template{emitUsize, takeUsize}

	t.Run("balanced prefix ends the branch", func(t *testing.T) {
		res := GenerateGraphs(catalog, WithRounds(4))
		assert.NotContains(t, strings.Join(joined(res), "|"), "A,B,A,B")
		assert.Equal(t, 2, len(res))
	})

	t.Run("single frontier agrees", func(t *testing.T) {
		res := GenerateGraphs(catalog, WithRounds(8), WithFrontier(FrontierSingle))
		for _, seq := range joined(res) {
			assert.False(t, strings.HasPrefix(seq, "A,B,"), "result %s extends [A B]", seq)
		}
	})
}

func joined(seqs []Candidate) []string {
	var out []string
	for _, seq := range names(seqs) {
		out = append(out, strings.Join(seq, ","))
	}
	return out
}

func TestSearchPolicies(t *testing.T) {
	catalog := []knode.Template{emitUsize, takeUsize}

	tests := []struct {
		name  string
		opts  []Option
		want  [][]string
		stats Stats
	}{
		{
			name:  "report balanced, level frontier",
			want:  [][]string{{"A", "B"}, {"A", "A", "B", "B"}},
			stats: Stats{Rounds: 4, Expanded: 5, Successors: 9, FrontierLeft: 3},
		},
		{
			name:  "report balanced, single frontier",
			opts:  []Option{WithFrontier(FrontierSingle)},
			want:  [][]string{{"A", "B"}},
			stats: Stats{Rounds: 4, Expanded: 4, Successors: 7, FrontierLeft: 3},
		},
		{
			name:  "extend balanced, single frontier",
			opts:  []Option{WithPolicy(ExtendBalanced), WithFrontier(FrontierSingle)},
			want:  [][]string{{"A"}},
			stats: Stats{Rounds: 1, Expanded: 1, Successors: 1, FrontierLeft: 0},
		},
		{
			name:  "report balanced, two rounds",
			opts:  []Option{WithRounds(2)},
			want:  [][]string{{"A", "B"}},
			stats: Stats{Rounds: 2, Expanded: 2, Successors: 3, FrontierLeft: 1},
		},
		{
			name:  "no rounds",
			opts:  []Option{WithRounds(0)},
			want:  [][]string{},
			stats: Stats{FrontierLeft: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(context.Background(), catalog, tt.opts...)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, names(res.Candidates))
			assert.Equal(t, tt.stats, res.Stats)
		})
	}
}

func TestSearchIdentityChain(t *testing.T) {
	res := GenerateGraphs([]knode.Template{emitUsize, idUsize, takeUsize}, WithRounds(3))
	assert.Equal(t, [][]string{{"A", "B"}, {"A", "Id", "B"}}, names(res))
}

func TestSearchEdgeCases(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		res, err := Search(context.Background(), nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(res.Candidates))
		assert.Equal(t, Stats{Rounds: 1, Expanded: 1}, res.Stats)
	})

	t.Run("template without ports is balanced at once", func(t *testing.T) {
		noop := knode.NewTemplate("noop", nil, nil, nil)
		res := GenerateGraphs([]knode.Template{noop}, WithRounds(1))
		assert.Equal(t, [][]string{{"noop"}}, names(res))
	})

	t.Run("unreachable inputs", func(t *testing.T) {
		res := GenerateGraphs([]knode.Template{takeUsize})
		assert.Equal(t, 0, len(res))
	})

	t.Run("multiple inputs", func(t *testing.T) {
		pair := knode.NewTemplate("pair", []katom.Kind{katom.Usize, katom.Usize}, nil, nil)
		res := GenerateGraphs([]knode.Template{emitUsize, pair}, WithRounds(3))
		assert.Equal(t, [][]string{{"A", "A", "pair"}}, names(res))
	})
}

func TestSearchParallel(t *testing.T) {
	entity := knode.NewTemplate("E", nil, []katom.Kind{katom.Entity}, nil)
	widen := knode.NewTemplate("W", []katom.Kind{katom.Entity}, []katom.Kind{katom.Usize}, nil)
	catalog := []knode.Template{emitUsize, entity, widen, idUsize, takeUsize}

	seq, err := Search(context.Background(), catalog, WithRounds(4))
	assert.NoError(t, err)
	par, err := Search(context.Background(), catalog, WithRounds(4), WithParallelism(4))
	assert.NoError(t, err)

	assert.NotEqual(t, 0, len(seq.Candidates))
	assert.Equal(t, names(seq.Candidates), names(par.Candidates))
	assert.Equal(t, seq.Stats, par.Stats)
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, []knode.Template{emitUsize, takeUsize})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSearchLogsCatalog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	GenerateGraphs([]knode.Template{emitUsize, takeUsize}, WithLogger(logger), WithRounds(1))
	assert.Contains(t, buf.String(), "template=A")
	assert.Contains(t, buf.String(), "out={usize:1}")
	assert.Contains(t, buf.String(), "Search round")
}

func TestParsePolicyAndFrontier(t *testing.T) {
	p, err := ParsePolicy("Extend")
	assert.NoError(t, err)
	assert.Equal(t, ExtendBalanced, p)
	_, err = ParsePolicy("bogus")
	assert.Error(t, err)

	f, err := ParseFrontier("single")
	assert.NoError(t, err)
	assert.Equal(t, FrontierSingle, f)
	assert.Equal(t, "level", FrontierLevel.String())
	_, err = ParseFrontier("")
	assert.Error(t, err)
}
