// Package synth is the schema-inference core: it walks a parsed JSON value
// and synthesizes a tree of class specifications describing types able to
// deserialize documents of the same shape. Synthesis is a pure tree
// transform; the package performs no I/O and no logging.
package synth

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/shapegen/shapegen/internal/errors"
	"github.com/shapegen/shapegen/internal/models"
)

// DefaultMaxDepth bounds recursion when no explicit limit is configured.
const DefaultMaxDepth = 64

// EmptyArrayPolicy decides what happens when an array field has no elements
// to infer an element type from.
type EmptyArrayPolicy int

const (
	// EmptyArrayError fails synthesis with ErrEmptyArray.
	EmptyArrayError EmptyArrayPolicy = iota
	// EmptyArrayStringList falls back to List<String>.
	EmptyArrayStringList
)

// Options configures a Synthesizer.
type Options struct {
	// MaxDepth bounds the recursion depth; zero or negative means
	// DefaultMaxDepth. Both object and array nesting count against it.
	MaxDepth int
	// EmptyArrays selects the fallback policy for arrays with no elements.
	EmptyArrays EmptyArrayPolicy
}

// Synthesizer produces ClassSpec trees from JSON values. A single instance
// may be reused across documents; every Synthesize call starts with a fresh
// class-name registry.
type Synthesizer struct {
	opts Options

	// classNames maps the lower-cased form of every class name assigned
	// during the current Synthesize call to its original spelling. Lookups
	// are case-insensitive so that sibling keys which normalize to the same
	// identifier are rejected instead of silently merged.
	classNames map[string]string
}

// New creates a Synthesizer with default options.
func New() *Synthesizer {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Synthesizer with the given options.
func NewWithOptions(opts Options) *Synthesizer {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Synthesizer{opts: opts}
}

// Synthesize infers a complete class hierarchy for the given JSON value,
// rooted at a class with the given name. The value must be a JSON object.
// The returned tree is freshly built on every call and never mutated by the
// synthesizer afterwards.
func (s *Synthesizer) Synthesize(value models.Value, className string) (models.ClassSpec, error) {
	if value.Kind != models.Object {
		return models.ClassSpec{}, errors.ErrNotAnObject
	}

	root := identifier(className)
	s.classNames = map[string]string{strings.ToLower(root): root}

	return s.synthesizeClass(value, root, 1)
}

// synthesizeClass builds the ClassSpec for one JSON object, recursing through
// the inferrer for every field.
func (s *Synthesizer) synthesizeClass(obj models.Value, className string, depth int) (models.ClassSpec, error) {
	if depth > s.opts.MaxDepth {
		return models.ClassSpec{}, errors.ErrMaxDepthExceeded
	}

	spec := models.ClassSpec{Name: className}
	for _, m := range obj.Members {
		desc, err := s.infer(m.Value, m.Key, &spec, depth)
		if err != nil {
			return models.ClassSpec{}, fmt.Errorf("field %q: %w", m.Key, err)
		}
		spec.Fields = append(spec.Fields, models.FieldSpec{Name: m.Key, Type: desc})
	}
	return spec, nil
}

// registerClassName records a synthesized class name, failing if any class in
// the current result already claimed it (case-insensitively).
func (s *Synthesizer) registerClassName(name string) error {
	key := strings.ToLower(name)
	if _, taken := s.classNames[key]; taken {
		return &errors.CollisionError{Name: name}
	}
	s.classNames[key] = name
	return nil
}

// identifier converts a JSON key or class-name fragment to a PascalCase
// identifier. Keys with no convertible characters map to a stable
// placeholder so the result is always a valid identifier.
func identifier(fragment string) string {
	name := strcase.ToCamel(fragment)
	if name == "" {
		return "Field"
	}
	return name
}
