// Package kcatalog loads template catalogs from YAML.
//
// A catalog lists named templates built from kbehavior behaviors:
//
//	templates:
//	  - name: numbers
//	    behavior: source
//	    params: {kind: usize}
//	  - name: total
//	    behavior: sink
//	    params: {kind: usize}
//
// The loaded templates are the input of ksynth.GenerateGraphs.
package kcatalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/birdayz/kgraph/kbehavior"
	"github.com/birdayz/kgraph/knode"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for catalog loading.
var (
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrDuplicateTemplate = errors.New("duplicate template name")
	ErrInvalidName       = errors.New("invalid template name")
)

// Entry is one template declaration.
type Entry struct {
	Name     string         `yaml:"name" validate:"required"`
	Behavior string         `yaml:"behavior" validate:"required"`
	Params   map[string]any `yaml:"params"`
}

// File is the document layout of a catalog.
type File struct {
	Templates []Entry `yaml:"templates" validate:"required,min=1,dive"`
}

// Catalog is an ordered, named set of templates.
type Catalog struct {
	templates []knode.Template
	byName    map[string]knode.Template
}

var validate = validator.New()

// Load reads and parses the catalog at path.
func Load(path string, reg *kbehavior.Registry) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data, reg)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. reg resolves behaviors; nil means the
// builtin registry. Every invalid entry is reported, not only the first.
func Parse(data []byte, reg *kbehavior.Registry) (*Catalog, error) {
	if reg == nil {
		reg = kbehavior.NewRegistry()
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		templates: make([]knode.Template, 0, len(f.Templates)),
		byName:    make(map[string]knode.Template, len(f.Templates)),
	}

	var errs error
	for i, e := range f.Templates {
		if strings.ContainsAny(e.Name, " \t\n\r") {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %w: %q cannot contain whitespace", i, ErrInvalidName, e.Name))
			continue
		}
		if _, exists := c.byName[e.Name]; exists {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: %w: %q", i, ErrDuplicateTemplate, e.Name))
			continue
		}
		t, err := reg.Build(e.Behavior, e.Params)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %d (%s): %w", i, e.Name, err))
			continue
		}
		named := t.Rename(e.Name)
		c.templates = append(c.templates, named)
		c.byName[e.Name] = named
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

// Templates returns the templates in declaration order.
func (c *Catalog) Templates() []knode.Template {
	out := make([]knode.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Lookup returns the template declared under name.
func (c *Catalog) Lookup(name string) (knode.Template, bool) {
	t, ok := c.byName[name]
	return t, ok
}

func (c *Catalog) Len() int { return len(c.templates) }
