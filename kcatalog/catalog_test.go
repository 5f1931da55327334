package kcatalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/kbehavior"
	"github.com/birdayz/kgraph/knode"
	"go.uber.org/multierr"
)

const pipelineYAML = `
templates:
  - name: numbers
    behavior: source
    params:
      kind: usize
  - name: double
    behavior: fanout
    params:
      kind: usize
      outputs: 2
  - name: plus
    behavior: add
    params: {kind: usize}
  - name: total
    behavior: sink
    params: {kind: usize}
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(pipelineYAML), nil)
	assert.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	var names []string
	for _, tmpl := range c.Templates() {
		names = append(names, tmpl.Name())
	}
	assert.Equal(t, []string{"numbers", "double", "plus", "total"}, names)

	plus, ok := c.Lookup("plus")
	assert.True(t, ok)
	assert.Equal(t, "plus(usize, usize) -> (usize)", knode.Describe(plus))

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, err := Parse(nil, nil)
		assert.True(t, errors.Is(err, ErrInvalidCatalog))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("templates: []\nextra: 1\n"), nil)
		assert.True(t, errors.Is(err, ErrInvalidCatalog))
	})

	t.Run("no templates", func(t *testing.T) {
		_, err := Parse([]byte("templates: []\n"), nil)
		assert.True(t, errors.Is(err, ErrInvalidCatalog))
	})

	t.Run("missing behavior", func(t *testing.T) {
		_, err := Parse([]byte("templates:\n  - name: a\n"), nil)
		assert.True(t, errors.Is(err, ErrInvalidCatalog))
	})

	t.Run("whitespace in name", func(t *testing.T) {
		_, err := Parse([]byte("templates:\n  - name: a b\n    behavior: widen\n"), nil)
		assert.True(t, errors.Is(err, ErrInvalidName))
	})

	t.Run("every bad entry is reported", func(t *testing.T) {
		doc := `
templates:
  - name: a
    behavior: widen
  - name: a
    behavior: widen
  - name: b
    behavior: teleport
  - name: c
    behavior: sink
`
		_, err := Parse([]byte(doc), nil)
		assert.Error(t, err)
		assert.Equal(t, 3, len(multierr.Errors(err)))
		assert.True(t, errors.Is(err, ErrDuplicateTemplate))
		assert.True(t, errors.Is(err, kbehavior.ErrUnknownBehavior))
		assert.True(t, errors.Is(err, kbehavior.ErrInvalidParams))
	})
}

func TestParseCustomRegistry(t *testing.T) {
	pos := katom.Define("catalog-position")
	reg := kbehavior.NewRegistry()
	reg.MustRegister("position", func(map[string]any) (*knode.SimpleTemplate, error) {
		return kbehavior.Source(pos), nil
	})

	c, err := Parse([]byte("templates:\n  - name: here\n    behavior: position\n"), reg)
	assert.NoError(t, err)
	assert.Equal(t, []katom.Kind{pos}, c.Templates()[0].OutKinds())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o600))

	c, err := Load(path, nil)
	assert.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
