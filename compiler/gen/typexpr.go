package gen

import (
	"fmt"
	"go/ast"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/boxgen/compiler/load"
)

// typeWriter converts Go type syntax into Jennifer code, recording the
// imports that qualified names resolve to.
type typeWriter struct {
	// imports used by the converted expressions, keyed by path.
	imports map[string]load.Import
}

func newTypeWriter() *typeWriter {
	return &typeWriter{imports: make(map[string]load.Import)}
}

// TypeCode returns the Jennifer code for a type reference.
func TypeCode(ref load.TypeRef) (jen.Code, error) {
	return newTypeWriter().code(ref)
}

// register declares the recorded imports on f, keeping the names used in
// the source files. Jennifer renames on collision.
func (w *typeWriter) register(f *jen.File) {
	for path, imp := range w.imports {
		if imp.Alias {
			f.ImportAlias(path, imp.Name)
		} else {
			f.ImportName(path, imp.Name)
		}
	}
}

func (w *typeWriter) code(ref load.TypeRef) (*jen.Statement, error) {
	return w.expr(ref.Expr, ref.Imports)
}

func (w *typeWriter) expr(e ast.Expr, imports load.ImportTable) (*jen.Statement, error) {
	switch t := e.(type) {
	case *ast.Ident:
		return jen.Id(t.Name), nil
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok {
			return nil, unsupported(e)
		}
		imp, ok := imports.Lookup(x.Name)
		if !ok {
			return nil, NewGenerationError("type", "", fmt.Sprintf("no import for package %s in %s.%s", x.Name, x.Name, t.Sel.Name), nil)
		}
		w.imports[imp.Path] = imp
		return jen.Qual(imp.Path, t.Sel.Name), nil
	case *ast.StarExpr:
		x, err := w.expr(t.X, imports)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(x), nil
	case *ast.ParenExpr:
		x, err := w.expr(t.X, imports)
		if err != nil {
			return nil, err
		}
		return jen.Parens(x), nil
	case *ast.ArrayType:
		elt, err := w.expr(t.Elt, imports)
		if err != nil {
			return nil, err
		}
		if t.Len == nil {
			return jen.Index().Add(elt), nil
		}
		n, err := w.expr(t.Len, imports)
		if err != nil {
			return nil, err
		}
		return jen.Index(n).Add(elt), nil
	case *ast.MapType:
		k, err := w.expr(t.Key, imports)
		if err != nil {
			return nil, err
		}
		v, err := w.expr(t.Value, imports)
		if err != nil {
			return nil, err
		}
		return jen.Map(k).Add(v), nil
	case *ast.ChanType:
		v, err := w.expr(t.Value, imports)
		if err != nil {
			return nil, err
		}
		switch t.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(v), nil
		case ast.RECV:
			return jen.Op("<-").Chan().Add(v), nil
		default:
			return jen.Chan().Add(v), nil
		}
	case *ast.FuncType:
		sig, err := w.signature(t, imports)
		if err != nil {
			return nil, err
		}
		return jen.Func().Add(sig), nil
	case *ast.Ellipsis:
		elt, err := w.expr(t.Elt, imports)
		if err != nil {
			return nil, err
		}
		return jen.Op("...").Add(elt), nil
	case *ast.InterfaceType:
		return w.iface(t, imports)
	case *ast.StructType:
		return w.strct(t, imports)
	case *ast.IndexExpr:
		return w.instance(t.X, []ast.Expr{t.Index}, imports)
	case *ast.IndexListExpr:
		return w.instance(t.X, t.Indices, imports)
	case *ast.UnaryExpr:
		if t.Op != token.TILDE {
			return nil, unsupported(e)
		}
		x, err := w.expr(t.X, imports)
		if err != nil {
			return nil, err
		}
		return jen.Op("~").Add(x), nil
	case *ast.BinaryExpr:
		x, err := w.expr(t.X, imports)
		if err != nil {
			return nil, err
		}
		y, err := w.expr(t.Y, imports)
		if err != nil {
			return nil, err
		}
		return x.Op(t.Op.String()).Add(y), nil
	case *ast.BasicLit:
		// Array lengths only.
		if t.Kind != token.INT {
			return nil, unsupported(e)
		}
		return jen.Op(t.Value), nil
	default:
		return nil, unsupported(e)
	}
}

func (w *typeWriter) instance(x ast.Expr, args []ast.Expr, imports load.ImportTable) (*jen.Statement, error) {
	base, err := w.expr(x, imports)
	if err != nil {
		return nil, err
	}
	codes, err := w.exprs(args, imports)
	if err != nil {
		return nil, err
	}
	return base.Types(codes...), nil
}

// signature renders the parameters and results of a function type.
func (w *typeWriter) signature(t *ast.FuncType, imports load.ImportTable) (*jen.Statement, error) {
	params, err := w.fields(t.Params, imports)
	if err != nil {
		return nil, err
	}
	sig := jen.Params(params...)
	if t.Results == nil || len(t.Results.List) == 0 {
		return sig, nil
	}
	results, err := w.fields(t.Results, imports)
	if err != nil {
		return nil, err
	}
	if len(t.Results.List) == 1 && len(t.Results.List[0].Names) == 0 {
		return sig.Add(results[0]), nil
	}
	return sig.Params(results...), nil
}

// fields renders a parameter or result list, keeping names and grouping.
func (w *typeWriter) fields(list *ast.FieldList, imports load.ImportTable) ([]jen.Code, error) {
	if list == nil {
		return nil, nil
	}
	codes := make([]jen.Code, 0, len(list.List))
	for _, f := range list.List {
		typ, err := w.expr(f.Type, imports)
		if err != nil {
			return nil, err
		}
		if len(f.Names) == 0 {
			codes = append(codes, typ)
			continue
		}
		codes = append(codes, jen.List(idents(f.Names)...).Add(typ))
	}
	return codes, nil
}

func (w *typeWriter) iface(t *ast.InterfaceType, imports load.ImportTable) (*jen.Statement, error) {
	var items []jen.Code
	for _, f := range t.Methods.List {
		if len(f.Names) == 0 {
			embedded, err := w.expr(f.Type, imports)
			if err != nil {
				return nil, err
			}
			items = append(items, embedded)
			continue
		}
		ft, ok := f.Type.(*ast.FuncType)
		if !ok {
			return nil, unsupported(f.Type)
		}
		sig, err := w.signature(ft, imports)
		if err != nil {
			return nil, err
		}
		items = append(items, jen.Id(f.Names[0].Name).Add(sig))
	}
	return jen.Interface(items...), nil
}

func (w *typeWriter) strct(t *ast.StructType, imports load.ImportTable) (*jen.Statement, error) {
	var items []jen.Code
	for _, f := range t.Fields.List {
		typ, err := w.expr(f.Type, imports)
		if err != nil {
			return nil, err
		}
		item := typ
		if len(f.Names) > 0 {
			item = jen.List(idents(f.Names)...).Add(typ)
		}
		if f.Tag != nil {
			// Raw tag literal, kept byte for byte.
			item.Op(f.Tag.Value)
		}
		items = append(items, item)
	}
	return jen.Struct(items...), nil
}

func (w *typeWriter) exprs(list []ast.Expr, imports load.ImportTable) ([]jen.Code, error) {
	codes := make([]jen.Code, len(list))
	for i, e := range list {
		c, err := w.expr(e, imports)
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}
	return codes, nil
}

func idents(ids []*ast.Ident) []jen.Code {
	codes := make([]jen.Code, len(ids))
	for i, id := range ids {
		codes[i] = jen.Id(id.Name)
	}
	return codes
}

func unsupported(e ast.Expr) error {
	return NewGenerationError("type", "", fmt.Sprintf("unsupported type expression %T", e), nil)
}
