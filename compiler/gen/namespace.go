package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/boxgen"
	"github.com/syssam/boxgen/compiler/load"
)

// PositionalParam is the format of synthesized positional parameter names.
const PositionalParam = "field%d"

type (
	// Namespace is the companion namespace of a sum type: a zero-size type
	// named after the sum type, holding one boxed constructor per variant.
	Namespace struct {
		// Name of the namespace type, the sum type name plus boxgen.Suffix.
		Name string
		// Sum is the sum type name.
		Sum string
		// TypeParams is the sum type's parameter list, copied verbatim.
		TypeParams []*load.TypeParam
		// Funcs are the constructors, in variant order.
		Funcs []*Func
		// Package of the sum type.
		Package *load.Package
	}

	// Func is the boxed constructor of a single variant.
	Func struct {
		// Name of the constructor, identical to the variant name.
		Name string
		// TypeArgs instantiate the variant type. They are names of the sum
		// type's parameters.
		TypeArgs []string
		// Params are the constructor parameters, in field order.
		Params []Param
		// Shape selects the construction expression.
		Shape Shape
	}

	// Param is a constructor parameter.
	Param struct {
		Name string
		Type load.TypeRef
	}
)

// ParamNames returns the flattened type parameter names of the namespace,
// used to instantiate the namespace and sum types.
func (ns *Namespace) ParamNames() []string {
	return load.ParamNames(ns.TypeParams)
}

// Func returns the constructor with the given name, or nil.
func (ns *Namespace) Func(name string) *Func {
	for _, fn := range ns.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Generate builds the companion namespace of a sum type declaration.
// It fails with an UnsupportedDeclarationKindError when decl is not a sum
// type, and with a VariantError when a variant cannot be constructed by a
// generated function. No partial namespace is ever returned.
func Generate(decl *load.Decl) (*Namespace, error) {
	ns := &Namespace{
		Name:       decl.Name + boxgen.Suffix,
		Sum:        decl.Name,
		TypeParams: decl.TypeParams,
		Package:    decl.Package,
	}
	if decl.Kind != load.KindSum {
		return nil, &UnsupportedDeclarationKindError{Type: decl.Name, Kind: decl.Kind, Pos: decl.Pos}
	}
	for _, v := range decl.Variants {
		fn, err := newFunc(decl.Name, decl.TypeParams, v)
		if err != nil {
			return nil, err
		}
		ns.Funcs = append(ns.Funcs, fn)
	}
	return ns, nil
}

func newFunc(sum string, sumParams []*load.TypeParam, v *load.Variant) (*Func, error) {
	if err := checkTypeParams(sum, sumParams, v); err != nil {
		return nil, err
	}
	params := load.ParamNames(sumParams)
	shape, err := Classify(sum, v)
	if err != nil {
		return nil, err
	}
	fn := &Func{Name: v.Name, TypeArgs: load.ParamNames(v.TypeParams), Shape: shape}
	switch s := shape.(type) {
	case UnitShape:
	case PositionalShape:
		for i, typ := range s.Fields {
			fn.Params = append(fn.Params, Param{Name: fmt.Sprintf(PositionalParam, i), Type: typ})
		}
	case NamedShape:
		for _, f := range s.Fields {
			switch {
			case slices.Contains(params, f.Name):
				return nil, NewVariantError(sum, v, f.Name, "field name collides with a type parameter of "+sum, nil)
			case f.Name == v.Name:
				return nil, NewVariantError(sum, v, f.Name, "field name shadows the variant type in its constructor", nil)
			}
			fn.Params = append(fn.Params, Param(f))
		}
	default:
		return nil, NewVariantError(sum, v, "", fmt.Sprintf("unexpected shape %T", shape), nil)
	}
	for _, p := range fn.Params {
		if len(p.Type.DotImports) > 0 {
			return nil, NewVariantError(sum, v, p.Name, fmt.Sprintf("declared in a file with dot imports (%v)", p.Type.DotImports), nil)
		}
	}
	return fn, nil
}

// checkTypeParams verifies that every type parameter of v is declared by the
// sum type with the same constraint, so instantiating v with the sum type's
// parameters is valid.
func checkTypeParams(sum string, sumParams []*load.TypeParam, v *load.Variant) error {
	for _, group := range v.TypeParams {
		for _, name := range group.Names {
			decl := paramGroup(sumParams, name)
			if decl == nil {
				return NewVariantError(sum, v, "", fmt.Sprintf("type parameter %s is not declared by %s", name, sum), nil)
			}
			if have, want := constraint(group.Constraint), constraint(decl.Constraint); have != want {
				return NewVariantError(sum, v, "", fmt.Sprintf("type parameter %s is constrained by %s, %s declares it %s", name, have, sum, want), nil)
			}
		}
	}
	return nil
}

func paramGroup(params []*load.TypeParam, name string) *load.TypeParam {
	for _, tp := range params {
		if slices.Contains(tp.Names, name) {
			return tp
		}
	}
	return nil
}

// constraint returns the source form of a constraint, spelling the empty
// interface as any.
func constraint(ref load.TypeRef) string {
	if s := ref.String(); s != "interface{}" {
		return s
	}
	return "any"
}
