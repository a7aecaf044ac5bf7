// Package schema provides JSON Schema parsing and conversion to class
// specification trees, so a schema document can drive the same emission
// pipeline as a sample JSON document.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/shapegen/shapegen/internal/errors"
	"github.com/shapegen/shapegen/internal/models"
	"github.com/shapegen/shapegen/internal/synth"
)

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the primary (first) type, or empty string if none
func (st SchemaType) Primary() string {
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// Schema represents a JSON Schema document. Only the structural subset that
// maps onto class synthesis is interpreted; constraint keywords are parsed
// but ignored.
type Schema struct {
	Schema      string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type SchemaType `json:"type,omitempty"`

	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	Items *Schema `json:"items,omitempty"`

	Format string `json:"format,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	Definitions map[string]*Schema `json:"definitions,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"` // draft 2019-09+

	Default  interface{}   `json:"default,omitempty"`
	Examples []interface{} `json:"examples,omitempty"`
}

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}

	return &schema, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// Converter converts a JSON Schema document to a ClassSpec tree. Each use of
// a $ref inlines a fresh nested class: the result is a tree with exclusive
// ownership, the same shape synthesis from a sample document produces.
type Converter struct {
	schema      *Schema
	definitions map[string]*Schema // merged definitions for $ref resolution
	classNames  map[string]string  // lower-cased name -> original, per Convert call
	maxDepth    int
}

// NewConverter creates a new schema converter
func NewConverter(schema *Schema, opts synth.Options) *Converter {
	// Merge definitions and $defs
	definitions := make(map[string]*Schema)
	for k, v := range schema.Definitions {
		definitions[k] = v
	}
	for k, v := range schema.Defs {
		definitions[k] = v
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = synth.DefaultMaxDepth
	}

	return &Converter{
		schema:      schema,
		definitions: definitions,
		maxDepth:    maxDepth,
	}
}

// Convert processes the schema and returns the synthesized class tree. The
// root schema must describe an object.
func (c *Converter) Convert(rootName string) (models.ClassSpec, error) {
	if rootName == "" {
		rootName = c.schema.Title
		if rootName == "" {
			rootName = "RootType"
		}
	}
	rootName = identifier(rootName)

	root, err := c.resolve(c.schema)
	if err != nil {
		return models.ClassSpec{}, err
	}
	if !describesObject(root) {
		return models.ClassSpec{}, errors.ErrNotAnObject
	}

	c.classNames = map[string]string{strings.ToLower(rootName): rootName}
	return c.convertObject(root, rootName, 1)
}

// convertObject builds the class for one object schema. Property order in a
// schema document is not observable through Go's JSON decoding, so properties
// are sorted by name to keep output deterministic.
func (c *Converter) convertObject(schema *Schema, className string, depth int) (models.ClassSpec, error) {
	if depth > c.maxDepth {
		return models.ClassSpec{}, errors.ErrMaxDepthExceeded
	}

	propNames := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	spec := models.ClassSpec{Name: className}
	for _, propName := range propNames {
		desc, err := c.convertProperty(schema.Properties[propName], propName, &spec, depth)
		if err != nil {
			return models.ClassSpec{}, fmt.Errorf("property %q: %w", propName, err)
		}
		spec.Fields = append(spec.Fields, models.FieldSpec{Name: propName, Type: desc})
	}
	return spec, nil
}

// convertProperty maps one property schema to a type descriptor, synthesizing
// a nested class for object-typed properties.
func (c *Converter) convertProperty(schema *Schema, propName string, enclosing *models.ClassSpec, depth int) (models.TypeDescriptor, error) {
	resolved, err := c.resolve(schema)
	if err != nil {
		return models.TypeDescriptor{}, err
	}

	if describesObject(resolved) {
		nestedName := enclosing.Name + identifier(propName)
		if err := c.registerClassName(nestedName); err != nil {
			return models.TypeDescriptor{}, err
		}
		nested, err := c.convertObject(resolved, nestedName, depth+1)
		if err != nil {
			return models.TypeDescriptor{}, err
		}
		enclosing.Nested = append(enclosing.Nested, nested)
		return models.ClassRef(nestedName), nil
	}

	switch primaryType(resolved) {
	case "array":
		if resolved.Items == nil {
			return models.TypeDescriptor{}, errors.ErrEmptyArray
		}
		if depth+1 > c.maxDepth {
			return models.TypeDescriptor{}, errors.ErrMaxDepthExceeded
		}
		elem, err := c.convertProperty(resolved.Items, propName, enclosing, depth+1)
		if err != nil {
			return models.TypeDescriptor{}, err
		}
		return models.ListOf(elem), nil
	case "string":
		return models.TypeDescriptor{Kind: models.TypeString}, nil
	case "integer":
		// Schemas carry no magnitude information, so the widest integral
		// type is the lossless choice.
		return models.TypeDescriptor{Kind: models.TypeLong}, nil
	case "number":
		return models.TypeDescriptor{Kind: models.TypeDouble}, nil
	case "boolean":
		return models.TypeDescriptor{Kind: models.TypeBool}, nil
	case "null", "":
		return models.TypeDescriptor{Kind: models.TypeString}, nil
	default:
		return models.TypeDescriptor{}, fmt.Errorf("unsupported schema type %q", primaryType(resolved))
	}
}

// resolve follows $ref and flattens allOf until a concrete schema remains.
func (c *Converter) resolve(schema *Schema) (*Schema, error) {
	if schema == nil {
		return nil, fmt.Errorf("nil schema")
	}
	if schema.Ref != "" {
		target, err := c.lookupRef(schema.Ref)
		if err != nil {
			return nil, err
		}
		return c.resolve(target)
	}
	if len(schema.AllOf) > 0 {
		return c.mergeAllOf(schema.AllOf)
	}
	return schema, nil
}

func (c *Converter) lookupRef(ref string) (*Schema, error) {
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if strings.HasPrefix(ref, prefix) {
			defName := strings.TrimPrefix(ref, prefix)
			if defSchema, ok := c.definitions[defName]; ok {
				return defSchema, nil
			}
			return nil, fmt.Errorf("unresolved $ref: %s", ref)
		}
	}
	return nil, fmt.Errorf("external $ref not supported: %s", ref)
}

// mergeAllOf merges multiple schemas from allOf into one object schema
func (c *Converter) mergeAllOf(schemas []*Schema) (*Schema, error) {
	merged := &Schema{
		Properties: make(map[string]*Schema),
		Required:   make([]string, 0),
	}

	for _, s := range schemas {
		resolved, err := c.resolve(s)
		if err != nil {
			return nil, err
		}

		for k, v := range resolved.Properties {
			merged.Properties[k] = v
		}
		merged.Required = append(merged.Required, resolved.Required...)

		if merged.Title == "" && resolved.Title != "" {
			merged.Title = resolved.Title
		}
		if merged.Description == "" && resolved.Description != "" {
			merged.Description = resolved.Description
		}
	}

	merged.Type = SchemaType{Types: []string{"object"}}
	return merged, nil
}

func (c *Converter) registerClassName(name string) error {
	key := strings.ToLower(name)
	if _, taken := c.classNames[key]; taken {
		return &errors.CollisionError{Name: name}
	}
	c.classNames[key] = name
	return nil
}

func describesObject(schema *Schema) bool {
	if primaryType(schema) == "object" {
		return true
	}
	return primaryType(schema) == "" && len(schema.Properties) > 0
}

// primaryType determines the effective type of a schema, skipping "null"
// when other types are listed alongside it.
func primaryType(schema *Schema) string {
	t := schema.Type.Primary()
	if t == "null" && len(schema.Type.Types) > 1 {
		for _, other := range schema.Type.Types {
			if other != "null" {
				return other
			}
		}
	}
	if t == "" && schema.Items != nil {
		return "array"
	}
	return t
}

func identifier(fragment string) string {
	name := strcase.ToCamel(fragment)
	if name == "" {
		return "Field"
	}
	return name
}
