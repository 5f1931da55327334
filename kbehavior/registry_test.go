package kbehavior

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
)

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()

	t.Run("builtin names", func(t *testing.T) {
		assert.Equal(t, []string{"add", "counter", "fanout", "identity", "sink", "source", "widen"}, r.Names())
	})

	t.Run("kind param", func(t *testing.T) {
		tmpl, err := r.Build("sink", map[string]any{"kind": "usize"})
		assert.NoError(t, err)
		assert.Equal(t, []katom.Kind{katom.Usize}, tmpl.InKinds())
		assert.Equal(t, 0, len(tmpl.OutKinds()))
	})

	t.Run("fanout defaults to two outputs", func(t *testing.T) {
		tmpl, err := r.Build("fanout", map[string]any{"kind": "entity"})
		assert.NoError(t, err)
		assert.Equal(t, []katom.Kind{katom.Entity, katom.Entity}, tmpl.OutKinds())

		tmpl, err = r.Build("fanout", map[string]any{"kind": "entity", "outputs": "3"})
		assert.NoError(t, err)
		assert.Equal(t, 3, len(tmpl.OutKinds()))
	})

	t.Run("widen takes no params", func(t *testing.T) {
		_, err := r.Build("widen", nil)
		assert.NoError(t, err)

		_, err = r.Build("widen", map[string]any{"kind": "usize"})
		assert.True(t, errors.Is(err, ErrInvalidParams))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := r.Build("nope", nil)
		assert.True(t, errors.Is(err, ErrUnknownBehavior))

		_, err = r.Build("source", nil)
		assert.True(t, errors.Is(err, ErrInvalidParams))

		_, err = r.Build("source", map[string]any{"kind": "nope"})
		assert.True(t, errors.Is(err, ErrInvalidParams))

		_, err = r.Build("fanout", map[string]any{"kind": "usize", "outputs": 0})
		assert.True(t, errors.Is(err, ErrInvalidParams))

		_, err = r.Build("add", map[string]any{"kind": "bool"})
		assert.True(t, errors.Is(err, ErrNotNumeric))
	})
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	custom := func(map[string]any) (*knode.SimpleTemplate, error) {
		return Source(katom.Bool), nil
	}

	assert.NoError(t, r.Register("flag", custom))
	err := r.Register("flag", custom)
	assert.True(t, errors.Is(err, ErrDuplicateBehavior))
	assert.Panics(t, func() { r.MustRegister("source", custom) })

	tmpl, err := r.Build("flag", nil)
	assert.NoError(t, err)
	assert.Equal(t, []katom.Kind{katom.Bool}, tmpl.OutKinds())
}
