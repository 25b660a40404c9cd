package gen

import (
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strconv"

	"github.com/syssam/boxgen/compiler/load"
)

// MaxArrayFields is the largest array length spread into one constructor
// parameter per element. Longer arrays take the whole array as field0.
const MaxArrayFields = 8

// Shape is the construction form of a variant. The set of shapes is closed:
// UnitShape, PositionalShape and NamedShape.
type Shape interface {
	shape()
	// Arity is the number of constructor parameters.
	Arity() int
}

type (
	// UnitShape is a variant without fields: struct{}.
	UnitShape struct{}

	// PositionalShape is a variant whose fields are identified by position.
	// An array variant [N]E with a literal N of at most MaxArrayFields has N
	// fields of type E and is built with a composite literal; any other
	// non-struct variant has a single field of its underlying type and is
	// built with a conversion.
	PositionalShape struct {
		Fields    []load.TypeRef
		Composite bool
	}

	// NamedShape is a struct variant; fields are identified by name.
	NamedShape struct {
		Fields []NamedField
	}

	// NamedField is a field of a NamedShape. Embedded fields are named
	// after their type.
	NamedField struct {
		Name string
		Type load.TypeRef
	}
)

func (UnitShape) shape()       {}
func (PositionalShape) shape() {}
func (NamedShape) shape()      {}

// Arity implements Shape.
func (UnitShape) Arity() int { return 0 }

// Arity implements Shape.
func (s PositionalShape) Arity() int { return len(s.Fields) }

// Arity implements Shape.
func (s NamedShape) Arity() int { return len(s.Fields) }

// ShapeName returns a human-readable name of the shape kind.
func ShapeName(s Shape) string {
	switch s.(type) {
	case UnitShape:
		return "unit"
	case PositionalShape:
		return "positional"
	case NamedShape:
		return "named"
	default:
		return "unknown"
	}
}

// Classify returns the shape of a variant from its type expression.
func Classify(sum string, v *load.Variant) (Shape, error) {
	ref := v.Type
	switch t := ref.Expr.(type) {
	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return UnitShape{}, nil
		}
		var fields []NamedField
		for _, f := range t.Fields.List {
			typ := load.TypeRef{Expr: f.Type, Imports: ref.Imports, DotImports: ref.DotImports}
			if len(f.Names) == 0 {
				name := embeddedName(f.Type)
				if slices.Contains(v.Helpers, name) {
					continue
				}
				if name == "" {
					return nil, NewVariantError(sum, v, "", fmt.Sprintf("unsupported embedded field %s", typ), nil)
				}
				fields = append(fields, NamedField{Name: name, Type: typ})
				continue
			}
			for _, id := range f.Names {
				if id.Name == "_" {
					return nil, NewVariantError(sum, v, id.Name, "blank fields cannot be set by a constructor", nil)
				}
				fields = append(fields, NamedField{Name: id.Name, Type: typ})
			}
		}
		if len(fields) == 0 {
			return UnitShape{}, nil
		}
		return NamedShape{Fields: fields}, nil
	case *ast.ArrayType:
		if t.Len == nil {
			break
		}
		n, ok := arrayLen(t.Len)
		if !ok || n > MaxArrayFields {
			break
		}
		elt := load.TypeRef{Expr: t.Elt, Imports: ref.Imports, DotImports: ref.DotImports}
		fields := make([]load.TypeRef, n)
		for i := range fields {
			fields[i] = elt
		}
		return PositionalShape{Fields: fields, Composite: true}, nil
	case *ast.InterfaceType:
		return nil, NewVariantError(sum, v, "", "interface types cannot be variants", nil)
	}
	return PositionalShape{Fields: []load.TypeRef{ref}}, nil
}

// embeddedName returns the field name of an embedded field: the name of its
// type without pointer, package qualifier or type arguments.
func embeddedName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.SelectorExpr:
			return t.Sel.Name
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

// arrayLen returns the length of an array type when it is an integer literal.
// Constant expressions are not evaluated.
func arrayLen(expr ast.Expr) (int, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	n, err := strconv.ParseInt(lit.Value, 0, 0)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
