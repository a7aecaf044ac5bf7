// Package models defines the data shapes shared across the pipeline: the
// ordered JSON value tree produced by the parser and the class specification
// tree produced by the synthesizer.
package models

import "strings"

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Double
	String
	Array
	Object
)

// Value is a parsed JSON value. It is a closed tagged union: only the payload
// field matching Kind is meaningful, everything else is zero. Integral
// numbers beyond the int64 range are classified as Double at parse time.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Num     float64
	Str     string
	Items   []Value
	Members []Member
}

// Member is one key/value pair of a JSON object. Objects are kept as ordered
// member slices rather than maps so the document's own key order survives
// synthesis and emission.
type Member struct {
	Key   string
	Value Value
}

// Document holds one parsed JSON document.
type Document struct {
	Root        Value
	RootIsArray bool
}

// TypeKind identifies which variant a TypeDescriptor holds.
type TypeKind int

const (
	TypeString TypeKind = iota
	TypeInt
	TypeLong
	TypeBool
	TypeDouble
	TypeList
	TypeClass
)

// TypeDescriptor is the inferred type of one field: a primitive kind, a list
// wrapping another descriptor, or a reference by name to a ClassSpec held in
// the same synthesis result.
type TypeDescriptor struct {
	Kind TypeKind

	// Elem is the element descriptor, set only when Kind is TypeList.
	Elem *TypeDescriptor

	// ClassName is the referenced class name, set only when Kind is TypeClass.
	ClassName string
}

// ListOf returns a descriptor for a list of elem.
func ListOf(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: TypeList, Elem: &elem}
}

// ClassRef returns a descriptor referencing the class with the given name.
func ClassRef(name string) TypeDescriptor {
	return TypeDescriptor{Kind: TypeClass, ClassName: name}
}

// String renders the descriptor in a compact, language-neutral notation,
// e.g. "List<String>" or "PersonAddress".
func (d TypeDescriptor) String() string {
	switch d.Kind {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeLong:
		return "Long"
	case TypeBool:
		return "Boolean"
	case TypeDouble:
		return "Double"
	case TypeList:
		var sb strings.Builder
		sb.WriteString("List<")
		if d.Elem != nil {
			sb.WriteString(d.Elem.String())
		}
		sb.WriteString(">")
		return sb.String()
	case TypeClass:
		return d.ClassName
	default:
		return "Unknown"
	}
}

// Equal reports whether two descriptors describe the same type.
func (d TypeDescriptor) Equal(other TypeDescriptor) bool {
	if d.Kind != other.Kind || d.ClassName != other.ClassName {
		return false
	}
	if d.Kind == TypeList {
		if d.Elem == nil || other.Elem == nil {
			return d.Elem == other.Elem
		}
		return d.Elem.Equal(*other.Elem)
	}
	return true
}

// FieldSpec is one field of a synthesized class. Name is the original JSON
// key; emission backends derive target-language identifiers from it.
type FieldSpec struct {
	Name string
	Type TypeDescriptor
}

// ClassSpec describes a synthesized data class: its name, its fields in the
// order the JSON document declared them, and the classes synthesized for its
// object-valued fields. Nested classes are owned exclusively by the class
// whose field produced them, so a synthesis result always forms a tree.
type ClassSpec struct {
	Name   string
	Fields []FieldSpec
	Nested []ClassSpec
}
