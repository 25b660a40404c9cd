package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/boxgen/compiler/load"
)

// parsePackage builds a package named p from in-memory sources keyed by file name.
func parsePackage(t *testing.T, dir string, files map[string]string) *load.Package {
	t.Helper()
	fset := token.NewFileSet()
	parsed := make([]*ast.File, 0, len(files))
	for name, src := range files {
		f, err := parser.ParseFile(fset, name, src, parser.ParseComments)
		require.NoError(t, err)
		parsed = append(parsed, f)
	}
	return load.NewPackage("p", "example.com/p", dir, fset, parsed, nil)
}

// mustDecl parses a single file and returns the named declaration.
func mustDecl(t *testing.T, src, name string) *load.Decl {
	t.Helper()
	decl := parsePackage(t, "", map[string]string{"p.go": src}).Lookup(name)
	require.NotNil(t, decl, "declaration %s", name)
	return decl
}

// mustNamespace generates the namespace of the named declaration.
func mustNamespace(t *testing.T, src, name string) *Namespace {
	t.Helper()
	ns, err := Generate(mustDecl(t, src, name))
	require.NoError(t, err)
	return ns
}

// renderString renders a namespace into a standalone file.
func renderString(t *testing.T, ns *Namespace) string {
	t.Helper()
	f := jen.NewFilePathName("example.com/p", "p")
	require.NoError(t, Render(f, ns))
	return f.GoString()
}

const helloSrc = `package p

//boxgen:shorthand
type Hello[I any, T any] interface{ isHello() }

type StringRef string
type Vector[T any] []T
type It[I any] [2]I

func (*StringRef) isHello() {}
func (Vector[T]) isHello()  {}
func (It[I]) isHello()      {}
`
