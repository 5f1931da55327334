package kbehavior

import (
	"errors"
	"fmt"
	"slices"

	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Sentinel errors for behavior lookup and construction.
var (
	ErrUnknownBehavior   = errors.New("unknown behavior")
	ErrDuplicateBehavior = errors.New("behavior already registered")
	ErrInvalidParams     = errors.New("invalid behavior params")
	ErrNotNumeric        = errors.New("kind is not numeric")
)

// Factory builds a template from loosely typed params, usually decoded from
// a catalog file.
type Factory func(params map[string]any) (*knode.SimpleTemplate, error)

// Registry maps behavior names to factories.
//
// Registry is NOT safe for concurrent registration. Build may be called
// concurrently once registration is done.
type Registry struct {
	factories map[string]Factory
}

var validate = validator.New()

// KindParams configures behaviors parameterized by one kind.
type KindParams struct {
	Kind katom.Kind `mapstructure:"kind" validate:"required"`
}

// FanoutParams configures the fanout behavior.
type FanoutParams struct {
	Kind    katom.Kind `mapstructure:"kind" validate:"required"`
	Outputs int        `mapstructure:"outputs" validate:"min=1,max=64"`
}

// NewRegistry returns a registry holding the builtin behaviors: source, sink,
// identity, fanout, add, counter and widen.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	byKind := func(build func(katom.Kind) *knode.SimpleTemplate) Factory {
		return func(params map[string]any) (*knode.SimpleTemplate, error) {
			var p KindParams
			if err := DecodeParams(params, &p); err != nil {
				return nil, err
			}
			return build(p.Kind), nil
		}
	}

	r.MustRegister("source", byKind(Source))
	r.MustRegister("sink", byKind(Sink))
	r.MustRegister("identity", byKind(Identity))
	r.MustRegister("counter", byKind(Counter))
	r.MustRegister("fanout", func(params map[string]any) (*knode.SimpleTemplate, error) {
		p := FanoutParams{Outputs: 2}
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		return Fanout(p.Kind, p.Outputs), nil
	})
	r.MustRegister("add", func(params map[string]any) (*knode.SimpleTemplate, error) {
		var p KindParams
		if err := DecodeParams(params, &p); err != nil {
			return nil, err
		}
		return Add(p.Kind)
	})
	r.MustRegister("widen", func(params map[string]any) (*knode.SimpleTemplate, error) {
		if err := DecodeParams(params, &struct{}{}); err != nil {
			return nil, err
		}
		return Widen(), nil
	})

	return r
}

// Register adds a behavior.
func (r *Registry) Register(name string, f Factory) error {
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBehavior, name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Build creates a template of the named behavior.
func (r *Registry) Build(behavior string, params map[string]any) (*knode.SimpleTemplate, error) {
	f, ok := r.factories[behavior]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBehavior, behavior)
	}
	t, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("behavior %s: %w", behavior, err)
	}
	return t, nil
}

// Names returns the registered behavior names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DecodeParams decodes params into the struct pointed to by out and validates
// it. Kinds are decoded from their names. Unknown keys are rejected.
func DecodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if err := validate.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			// Not a struct, nothing to validate.
			return nil
		}
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
