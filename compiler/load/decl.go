package load

import (
	"go/ast"
	"go/types"

	"github.com/goccy/go-json"
)

// Package represents a Go package that was parsed for sum type declarations.
type Package struct {
	Name  string  `json:"name" yaml:"name"`
	Path  string  `json:"path" yaml:"path"`
	Dir   string  `json:"dir" yaml:"dir"`
	Decls []*Decl `json:"decls,omitempty" yaml:"decls,omitempty"`
}

// DeclKind classifies a top-level type declaration.
type DeclKind int

const (
	// KindDefined is a defined type over a non-struct, non-interface type.
	KindDefined DeclKind = iota
	// KindSum is an interface declaring at least one method, the sealed
	// interface form of a sum type.
	KindSum
	// KindStruct is a struct (record) type.
	KindStruct
	// KindInterface is an interface without methods or with type terms,
	// usable only as a constraint or as an open any-like type.
	KindInterface
	// KindAlias is an alias declaration (type A = B).
	KindAlias
)

// String returns a human-readable representation of the DeclKind.
func (k DeclKind) String() string {
	switch k {
	case KindSum:
		return "sum"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindAlias:
		return "alias"
	default:
		return "defined"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k DeclKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Decl represents a top-level type declaration as written in source.
type Decl struct {
	// Name of the declared type.
	Name string `json:"name" yaml:"name"`
	// Kind of the declaration.
	Kind DeclKind `json:"kind" yaml:"kind"`
	// Annotated reports whether the doc comment carries the boxgen directive.
	Annotated bool `json:"annotated,omitempty" yaml:"annotated,omitempty"`
	// TypeParams holds the type parameter list, grouping preserved.
	TypeParams []*TypeParam `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	// Methods are the explicit method names of a sum type, in declaration order.
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"`
	// Variants of a sum type, in source order.
	Variants []*Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
	// Pos is the source position of the type name.
	Pos string `json:"pos" yaml:"pos"`
	// Package the declaration belongs to.
	Package *Package `json:"-" yaml:"-"`
}

// ParamNames flattens a type parameter list into its names, the form used
// to instantiate the declaring type.
func ParamNames(params []*TypeParam) []string {
	var names []string
	for _, tp := range params {
		names = append(names, tp.Names...)
	}
	return names
}

// TypeParam is one group of a type parameter list, e.g. "K, V comparable".
type TypeParam struct {
	Names      []string `json:"names" yaml:"names"`
	Constraint TypeRef  `json:"constraint" yaml:"constraint"`
}

// Variant is a named type implementing a sum type.
type Variant struct {
	// Name of the variant type.
	Name string `json:"name" yaml:"name"`
	// TypeParams is the variant's own type parameter list.
	TypeParams []*TypeParam `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	// Type is the variant's type expression (the right-hand side of its declaration).
	Type TypeRef `json:"type" yaml:"type"`
	// Helpers are the embedded empty structs providing the sum type's
	// methods. Constructors leave them at their zero value.
	Helpers []string `json:"helpers,omitempty" yaml:"helpers,omitempty"`
	// Pos is the source position of the variant name.
	Pos string `json:"pos" yaml:"pos"`
}

// TypeRef is a type expression together with the import table of the file
// it was written in, so qualified names can be resolved to import paths.
type TypeRef struct {
	Expr    ast.Expr    `json:"-" yaml:"-"`
	Imports ImportTable `json:"-" yaml:"-"`
	// DotImports lists the paths dot-imported by the file. Names from them
	// cannot be qualified in generated code.
	DotImports []string `json:"-" yaml:"-"`
}

// String returns the source form of the type expression.
func (r TypeRef) String() string {
	if r.Expr == nil {
		return ""
	}
	return types.ExprString(r.Expr)
}

// MarshalJSON implements json.Marshaler.
func (r TypeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// MarshalYAML implements yaml.Marshaler.
func (r TypeRef) MarshalYAML() (any, error) {
	return r.String(), nil
}

// Import is a single import of a source file.
type Import struct {
	// Path is the import path.
	Path string
	// Name is the local name used in the file.
	Name string
	// Alias reports whether Name was given explicitly in the import spec.
	Alias bool
}

// ImportTable maps the local package names of a file to their imports.
type ImportTable map[string]Import

// Lookup returns the import bound to the given local name.
func (t ImportTable) Lookup(name string) (Import, bool) {
	imp, ok := t[name]
	return imp, ok
}
