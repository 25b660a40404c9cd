// Package load parses Go packages into the declaration descriptions consumed
// by the generator.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/boxgen"
)

// LoadMode specifies what information to load from packages. Types are
// requested to learn the names and method sets of imported packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedImports |
	packages.NeedTypes

// Config controls package loading.
type Config struct {
	// Dir is the directory patterns are resolved against. Empty means the
	// current directory.
	Dir string
	// BuildFlags are passed to the underlying build system (e.g. "-tags=integration").
	BuildFlags []string
}

// NameFunc resolves the package name of an import path.
type NameFunc func(path string) string

// Packages loads the packages matching patterns and parses their declarations.
// List and syntax errors abort loading; type errors are ignored, since a stale
// generated file must not prevent regenerating it.
func Packages(ctx context.Context, cfg *Config, patterns ...string) ([]*Package, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	pkgs, err := packages.Load(&packages.Config{
		Mode:       LoadMode,
		Context:    ctx,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	out := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		var errs []error
		for _, e := range p.Errors {
			if e.Kind == packages.TypeError {
				continue
			}
			errs = append(errs, e)
		}
		if len(errs) > 0 {
			return nil, &PackageError{Package: p.PkgPath, Errors: errs}
		}
		if len(p.GoFiles) == 0 {
			return nil, &PackageError{Package: p.PkgPath, Errors: []error{errors.New("no Go files")}}
		}
		imported := make(map[string]*types.Package)
		if p.Types != nil {
			for _, imp := range p.Types.Imports() {
				imported[imp.Path()] = imp
			}
		}
		out = append(out, newPackage(p.Name, p.PkgPath, filepath.Dir(p.GoFiles[0]), p.Fset, p.Syntax, importNames(imported), imported))
	}
	return out, nil
}

// importNames returns a NameFunc backed by the type-checked imports of a package.
func importNames(imported map[string]*types.Package) NameFunc {
	return func(path string) string {
		if pkg, ok := imported[path]; ok {
			return pkg.Name()
		}
		return GuessName(path)
	}
}

// NewPackage builds a Package from already parsed files. Files generated by
// boxgen (starting with boxgen.GeneratedHeader) are skipped, so previous
// output never contributes declarations or methods. Methods promoted from
// embedded types of other packages are not seen, since no type information
// is available. A nil names resolves import names with GuessName.
func NewPackage(name, path, dir string, fset *token.FileSet, files []*ast.File, names NameFunc) *Package {
	return newPackage(name, path, dir, fset, files, names, nil)
}

func newPackage(name, path, dir string, fset *token.FileSet, files []*ast.File, names NameFunc, imported map[string]*types.Package) *Package {
	if names == nil {
		names = GuessName
	}
	p := &parser{
		pkg:      &Package{Name: name, Path: path, Dir: dir},
		fset:     fset,
		names:    names,
		imported: imported,
		methods:  make(map[string][]string),
		types:    make(map[string]typeSpec),
	}
	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b *ast.File) int {
		return strings.Compare(fset.File(a.Pos()).Name(), fset.File(b.Pos()).Name())
	})
	for _, f := range sorted {
		if generated(f) {
			continue
		}
		p.file(f)
	}
	for _, s := range p.specs {
		p.types[s.spec.Name.Name] = s
		p.pkg.Decls = append(p.pkg.Decls, p.decl(s))
	}
	for _, d := range p.pkg.Decls {
		if d.Kind == KindSum {
			d.Variants = p.variants(d)
		}
	}
	return p.pkg
}

// Select returns the declarations carrying the directive together with the
// declarations named in types, in source order.
func (p *Package) Select(types ...string) []*Decl {
	var out []*Decl
	for _, d := range p.Decls {
		if d.Annotated || slices.Contains(types, d.Name) {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the declaration with the given name, or nil.
func (p *Package) Lookup(name string) *Decl {
	for _, d := range p.Decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// GuessName guesses the package name of an import path from its last
// element, skipping major version suffixes and common "go-" decorations.
func GuessName(path string) string {
	elems := strings.Split(path, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.ReplaceAll(name, "-", "_")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

type (
	parser struct {
		pkg      *Package
		fset     *token.FileSet
		names    NameFunc
		imported map[string]*types.Package
		specs    []typeSpec
		types    map[string]typeSpec
		// methods maps a receiver base type name to its declared method names.
		methods map[string][]string
	}

	// typeSpec is a type spec with the context of the file it was declared in.
	typeSpec struct {
		spec    *ast.TypeSpec
		doc     *ast.CommentGroup
		imports ImportTable
		dots    []string
	}
)

func (p *parser) file(f *ast.File) {
	imports, dots := p.importTable(f)
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && !d.Lparen.IsValid() {
					doc = d.Doc
				}
				p.specs = append(p.specs, typeSpec{spec: ts, doc: doc, imports: imports, dots: dots})
			}
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 {
				continue
			}
			if base := receiverBase(d.Recv.List[0].Type); base != "" {
				p.methods[base] = append(p.methods[base], d.Name.Name)
			}
		}
	}
}

func (p *parser) importTable(f *ast.File) (ImportTable, []string) {
	table := make(ImportTable)
	var dots []string
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		switch {
		case spec.Name == nil:
			name := p.names(path)
			table[name] = Import{Path: path, Name: name}
		case spec.Name.Name == "_":
		case spec.Name.Name == ".":
			dots = append(dots, path)
		default:
			table[spec.Name.Name] = Import{Path: path, Name: spec.Name.Name, Alias: true}
		}
	}
	return table, dots
}

func (p *parser) decl(s typeSpec) *Decl {
	ts := s.spec
	d := &Decl{
		Name:      ts.Name.Name,
		Annotated: hasDirective(s.doc),
		Pos:       p.pos(ts.Name.Pos()),
		Package:   p.pkg,
	}
	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			d.TypeParams = append(d.TypeParams, &TypeParam{
				Names:      identNames(field.Names),
				Constraint: s.ref(field.Type),
			})
		}
	}
	if ts.Assign.IsValid() {
		d.Kind = KindAlias
		return d
	}
	switch t := ts.Type.(type) {
	case *ast.StructType:
		d.Kind = KindStruct
	case *ast.InterfaceType:
		methods, terms := interfaceMethods(t)
		if len(methods) == 0 || terms {
			d.Kind = KindInterface
			break
		}
		d.Kind = KindSum
		d.Methods = methods
	default:
		d.Kind = KindDefined
	}
	return d
}

// variants returns the types whose method sets, declared or promoted, cover
// all methods of sum. Empty structs embedded by another variant only carry
// the methods; they are helpers, not variants.
func (p *parser) variants(sum *Decl) []*Variant {
	var candidates []typeSpec
	for _, s := range p.specs {
		ts := s.spec
		if ts.Assign.IsValid() || ts.Name.Name == sum.Name {
			continue
		}
		if _, ok := ts.Type.(*ast.InterfaceType); ok {
			continue
		}
		if !containsAll(p.methodSet(ts.Name.Name, make(map[string]bool)), sum.Methods) {
			continue
		}
		candidates = append(candidates, s)
	}
	helpers := make(map[string]bool)
	for _, s := range candidates {
		for _, name := range p.embedded(s) {
			if isEmptyStruct(p.types[name].spec.Type) {
				helpers[name] = true
			}
		}
	}
	var vs []*Variant
	for _, s := range candidates {
		ts := s.spec
		if helpers[ts.Name.Name] {
			continue
		}
		v := &Variant{
			Name: ts.Name.Name,
			Type: s.ref(ts.Type),
			Pos:  p.pos(ts.Name.Pos()),
		}
		for _, name := range p.embedded(s) {
			if helpers[name] {
				v.Helpers = append(v.Helpers, name)
			}
		}
		if ts.TypeParams != nil {
			for _, field := range ts.TypeParams.List {
				v.TypeParams = append(v.TypeParams, &TypeParam{
					Names:      identNames(field.Names),
					Constraint: s.ref(field.Type),
				})
			}
		}
		vs = append(vs, v)
	}
	return vs
}

// methodSet returns the method names of a pointer to the named type of the
// package: its declared methods and the ones promoted through embedding.
// seen guards against embedding cycles along the current path.
func (p *parser) methodSet(name string, seen map[string]bool) []string {
	if seen[name] {
		return nil
	}
	seen[name] = true
	defer delete(seen, name)

	set := slices.Clone(p.methods[name])
	s, ok := p.types[name]
	if !ok {
		return set
	}
	switch t := s.spec.Type.(type) {
	case *ast.StructType:
		for _, f := range t.Fields.List {
			if len(f.Names) == 0 {
				set = append(set, p.promoted(s, f.Type, seen)...)
			}
		}
	case *ast.InterfaceType:
		for _, f := range t.Methods.List {
			if len(f.Names) > 0 {
				set = append(set, identNames(f.Names)...)
				continue
			}
			set = append(set, p.promoted(s, f.Type, seen)...)
		}
	}
	return set
}

// promoted returns the methods an embedded type contributes to its embedder.
func (p *parser) promoted(s typeSpec, expr ast.Expr, seen map[string]bool) []string {
	switch t := embeddedBase(expr).(type) {
	case *ast.Ident:
		if _, ok := p.types[t.Name]; ok {
			return p.methodSet(t.Name, seen)
		}
		if t.Name == "error" {
			return []string{"Error"}
		}
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok {
			return nil
		}
		imp, ok := s.imports.Lookup(x.Name)
		if !ok {
			return nil
		}
		return p.external(imp.Path, t.Sel.Name)
	}
	return nil
}

// external returns the method names of an exported type of an imported
// package, when type information was loaded.
func (p *parser) external(path, name string) []string {
	pkg, ok := p.imported[path]
	if !ok {
		return nil
	}
	obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil
	}
	typ := obj.Type()
	if !types.IsInterface(typ) {
		typ = types.NewPointer(typ)
	}
	ms := types.NewMethodSet(typ)
	var names []string
	for i := range ms.Len() {
		if m := ms.At(i).Obj(); m.Exported() {
			names = append(names, m.Name())
		}
	}
	return names
}

// embedded returns the names of the package types embedded in a struct type.
func (p *parser) embedded(s typeSpec) []string {
	st, ok := s.spec.Type.(*ast.StructType)
	if !ok {
		return nil
	}
	var names []string
	for _, f := range st.Fields.List {
		if len(f.Names) > 0 {
			continue
		}
		if id, ok := embeddedBase(f.Type).(*ast.Ident); ok {
			if _, local := p.types[id.Name]; local {
				names = append(names, id.Name)
			}
		}
	}
	return names
}

func isEmptyStruct(expr ast.Expr) bool {
	st, ok := expr.(*ast.StructType)
	return ok && (st.Fields == nil || len(st.Fields.List) == 0)
}

// embeddedBase strips pointers, parentheses and type arguments from an
// embedded type.
func embeddedBase(expr ast.Expr) ast.Expr {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		default:
			return expr
		}
	}
}

// generated reports whether f is boxgen output. Files generated by other
// tools are loaded like hand-written ones.
func generated(f *ast.File) bool {
	for _, g := range f.Comments {
		if g.Pos() >= f.Package {
			break
		}
		for _, c := range g.List {
			if c.Text == "// "+boxgen.GeneratedHeader {
				return true
			}
		}
	}
	return false
}

func (p *parser) pos(pos token.Pos) string {
	position := p.fset.Position(pos)
	position.Filename = filepath.Base(position.Filename)
	return position.String()
}

func (s typeSpec) ref(expr ast.Expr) TypeRef {
	return TypeRef{Expr: expr, Imports: s.imports, DotImports: s.dots}
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimRight(c.Text, " \t") == "//"+boxgen.Directive {
			return true
		}
	}
	return false
}

// interfaceMethods returns the explicit method names of an interface, and
// whether it has type terms (~T, A | B), which make it a constraint.
func interfaceMethods(t *ast.InterfaceType) (methods []string, terms bool) {
	for _, field := range t.Methods.List {
		if len(field.Names) > 0 {
			methods = append(methods, identNames(field.Names)...)
			continue
		}
		switch field.Type.(type) {
		case *ast.UnaryExpr, *ast.BinaryExpr:
			terms = true
		}
	}
	return methods, terms
}

// receiverBase returns the base type name of a method receiver,
// e.g. "List" for "*List[T]".
func receiverBase(expr ast.Expr) string {
	if id, ok := embeddedBase(expr).(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func identNames(ids []*ast.Ident) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return names
}

func containsAll(have, want []string) bool {
	for _, name := range want {
		if !slices.Contains(have, name) {
			return false
		}
	}
	return true
}
