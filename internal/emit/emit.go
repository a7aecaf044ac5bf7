// Package emit renders synthesized class trees as source text. The core
// hands a ClassSpec tree to a Backend; the backend owns everything
// language-specific, including per-field serialization decoration.
package emit

import (
	"bytes"
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/shapegen/shapegen/internal/models"
)

// Backend renders one ClassSpec tree as source text in its target language.
// Implementations must preserve field order and keep nested classes scoped to
// their declaring class.
type Backend interface {
	Render(class models.ClassSpec, pkg string) (string, error)
}

// TagFunc produces the struct-tag decoration for one field. The returned
// string is written verbatim after the field type; return "" for no tag.
type TagFunc func(jsonKey string, t models.TypeDescriptor) string

// GoBackend renders a ClassSpec tree as Go struct declarations. Go has no
// nested types, so each nested class becomes a top-level type emitted
// immediately after its declaring class; the synthesized names are already
// parent-prefixed and unique.
type GoBackend struct {
	// Tags decorates each field; defaults to a plain json:"<key>" tag.
	Tags TagFunc
}

// NewGoBackend creates a GoBackend with the default JSON tag decoration.
func NewGoBackend() *GoBackend {
	return &GoBackend{Tags: jsonTag}
}

// Render writes the package clause followed by the class tree.
func (g *GoBackend) Render(class models.ClassSpec, pkg string) (string, error) {
	if pkg == "" {
		pkg = "main"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	g.writeClass(&buf, class)
	return buf.String(), nil
}

func (g *GoBackend) writeClass(buf *bytes.Buffer, class models.ClassSpec) {
	fmt.Fprintf(buf, "type %s struct {\n", class.Name)
	for _, field := range class.Fields {
		name := goFieldName(field.Name)
		tag := ""
		if g.Tags != nil {
			tag = g.Tags(field.Name, field.Type)
		}
		if tag != "" {
			fmt.Fprintf(buf, "\t%s %s %s\n", name, goType(field.Type), tag)
		} else {
			fmt.Fprintf(buf, "\t%s %s\n", name, goType(field.Type))
		}
	}
	buf.WriteString("}\n")

	for _, nested := range class.Nested {
		buf.WriteString("\n")
		g.writeClass(buf, nested)
	}
}

// goType maps a type descriptor to its Go representation. Class references
// become pointers so absent nested objects round-trip as nil.
func goType(d models.TypeDescriptor) string {
	switch d.Kind {
	case models.TypeString:
		return "string"
	case models.TypeInt:
		return "int"
	case models.TypeLong:
		return "int64"
	case models.TypeBool:
		return "bool"
	case models.TypeDouble:
		return "float64"
	case models.TypeList:
		if d.Elem == nil {
			return "[]interface{}"
		}
		return "[]" + goType(*d.Elem)
	case models.TypeClass:
		return "*" + d.ClassName
	default:
		return "interface{}"
	}
}

func goFieldName(jsonKey string) string {
	name := strcase.ToCamel(jsonKey)
	if name == "" {
		return "Field"
	}
	return name
}

func jsonTag(jsonKey string, t models.TypeDescriptor) string {
	omitempty := ""
	if t.Kind == models.TypeClass || t.Kind == models.TypeList {
		omitempty = ",omitempty"
	}
	return fmt.Sprintf("`json:\"%s%s\"`", jsonKey, omitempty)
}
