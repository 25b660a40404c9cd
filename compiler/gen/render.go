package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

// boxVar names the local holding a converted variant before it is boxed.
// Positional parameters are named field0..fieldN, so it never collides.
const boxVar = "box"

// nolint suppresses the linters that flag the namespace name and the
// field-named parameters of generated constructors.
const nolint = "//nolint:revive,stylecheck"

// Render appends the namespace type and its constructors to f:
//
//	type HelloB[I any, T any] struct{}
//
//	func (HelloB[I, T]) Vector(field0 []T) Hello[I, T] {
//		box := Vector[T](field0)
//		return &box
//	}
//
// The receiver and result carry the instantiation form of the sum type's
// parameter list; the namespace type carries the declaration form.
func Render(f *jen.File, ns *Namespace) error {
	w := newTypeWriter()
	decl, err := typeParams(w, ns)
	if err != nil {
		return err
	}
	f.Commentf("%s groups the boxed constructors of the %s variants.", ns.Name, ns.Sum)
	f.Comment("//")
	f.Comment(nolint)
	f.Type().Id(ns.Name).Add(decl).Struct()

	params := ns.ParamNames()
	for _, fn := range ns.Funcs {
		code, err := function(w, ns, params, fn)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", ns.Sum, fn.Name, err)
		}
		f.Line()
		f.Commentf("%s returns a new %s boxed as %s.", fn.Name, fn.Name, ns.Sum)
		f.Add(code)
	}
	w.register(f)
	return nil
}

// typeParams renders the declaration form of the parameter list, grouping preserved.
func typeParams(w *typeWriter, ns *Namespace) (*jen.Statement, error) {
	if len(ns.TypeParams) == 0 {
		return jen.Null(), nil
	}
	groups := make([]jen.Code, 0, len(ns.TypeParams))
	for _, tp := range ns.TypeParams {
		constraint, err := w.code(tp.Constraint)
		if err != nil {
			return nil, fmt.Errorf("%s type parameters: %w", ns.Sum, err)
		}
		names := make([]jen.Code, len(tp.Names))
		for i, name := range tp.Names {
			names[i] = jen.Id(name)
		}
		groups = append(groups, jen.List(names...).Add(constraint))
	}
	return jen.Types(groups...), nil
}

func function(w *typeWriter, ns *Namespace, params []string, fn *Func) (*jen.Statement, error) {
	args := make([]jen.Code, 0, len(fn.Params))
	for _, p := range fn.Params {
		typ, err := w.code(p.Type)
		if err != nil {
			return nil, err
		}
		args = append(args, jen.Id(p.Name).Add(typ))
	}
	body, err := construct(fn)
	if err != nil {
		return nil, err
	}
	return jen.Func().
		Params(instantiate(ns.Name, params)).
		Id(fn.Name).
		Params(args...).
		Add(instantiate(ns.Sum, params)).
		Block(body...), nil
}

// construct returns the body building the variant on the heap.
func construct(fn *Func) ([]jen.Code, error) {
	variant := instantiate(fn.Name, fn.TypeArgs)
	switch s := fn.Shape.(type) {
	case UnitShape:
		return []jen.Code{jen.Return(jen.Op("&").Add(variant).Values())}, nil
	case PositionalShape:
		args := make([]jen.Code, len(fn.Params))
		for i, p := range fn.Params {
			args[i] = jen.Id(p.Name)
		}
		if s.Composite {
			return []jen.Code{jen.Return(jen.Op("&").Add(variant).Values(args...))}, nil
		}
		return []jen.Code{
			jen.Id(boxVar).Op(":=").Add(variant).Call(args...),
			jen.Return(jen.Op("&").Id(boxVar)),
		}, nil
	case NamedShape:
		fields := make([]jen.Code, len(fn.Params))
		for i, p := range fn.Params {
			fields[i] = jen.Id(p.Name).Op(":").Id(p.Name)
		}
		return []jen.Code{jen.Return(jen.Op("&").Add(variant).Values(fields...))}, nil
	default:
		return nil, NewGenerationError("render", "", fmt.Sprintf("unexpected shape %T", fn.Shape), nil)
	}
}

// instantiate renders name, followed by [args] when there are any.
func instantiate(name string, args []string) *jen.Statement {
	s := jen.Id(name)
	if len(args) == 0 {
		return s
	}
	codes := make([]jen.Code, len(args))
	for i, arg := range args {
		codes[i] = jen.Id(arg)
	}
	return s.Types(codes...)
}
