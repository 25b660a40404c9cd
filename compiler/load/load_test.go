package load

import (
	"context"
	"errors"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseFiles builds a package from in-memory sources keyed by file name.
func parseFiles(t *testing.T, files map[string]string) *Package {
	t.Helper()
	fset := token.NewFileSet()
	parsed := make([]*ast.File, 0, len(files))
	for name, src := range files {
		f, err := goparser.ParseFile(fset, name, src, goparser.ParseComments)
		require.NoError(t, err)
		parsed = append(parsed, f)
	}
	return NewPackage("p", "example.com/p", "/src/p", fset, parsed, nil)
}

func variantNames(d *Decl) []string {
	names := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		names[i] = v.Name
	}
	return names
}

func TestNewPackage(t *testing.T) {
	t.Run("classifies declarations", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"a.go": `package p

type Sum interface{ isSum() }
type Record struct{ A int }
type Name string
type Any interface{}
type Number interface{ ~int | ~float64 }
type Alias = Record
`})
		kinds := map[string]DeclKind{
			"Sum":    KindSum,
			"Record": KindStruct,
			"Name":   KindDefined,
			"Any":    KindInterface,
			"Number": KindInterface,
			"Alias":  KindAlias,
		}
		require.Len(t, pkg.Decls, len(kinds))
		for _, d := range pkg.Decls {
			assert.Equal(t, kinds[d.Name], d.Kind, d.Name)
		}
		assert.Equal(t, []string{"isSum"}, pkg.Lookup("Sum").Methods)
	})

	t.Run("detects the directive", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"a.go": `package p

// Hello is annotated.
//
//boxgen:shorthand
type Hello interface{ isHello() }

// World mentions boxgen:shorthand in prose only.
type World interface{ isWorld() }

type (
	//boxgen:shorthand
	Grouped interface{ isGrouped() }
	Plain interface{ isPlain() }
)
`})
		assert.True(t, pkg.Lookup("Hello").Annotated)
		assert.False(t, pkg.Lookup("World").Annotated)
		assert.True(t, pkg.Lookup("Grouped").Annotated)
		assert.False(t, pkg.Lookup("Plain").Annotated)
	})

	t.Run("variants follow file then source order", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{
			"b.go": `package p

type C struct{}
type A struct{}

func (A) isSum() {}
func (C) isSum() {}
`,
			"a.go": `package p

type Sum interface{ isSum() }

func (*B) isSum() {}

type B int
`,
		})
		assert.Equal(t, []string{"B", "C", "A"}, variantNames(pkg.Lookup("Sum")))
	})

	t.Run("variants implement every method", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"a.go": `package p

type Sum interface {
	isSum()
	String() string
}

type Full struct{}
type Half struct{}
type Other interface{ isSum(); String() string }

func (Full) isSum()          {}
func (Full) String() string  { return "" }
func (Half) isSum()          {}
`})
		assert.Equal(t, []string{"Full"}, variantNames(pkg.Lookup("Sum")))
	})

	t.Run("generic variants keep their parameter names", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"a.go": `package p

type Hello[I any, T any] interface{ isHello() }

type Vector[T any] []T
type It[I any] [2]I

func (Vector[T]) isHello() {}
func (It[I]) isHello()     {}
`})
		sum := pkg.Lookup("Hello")
		require.Len(t, sum.TypeParams, 2)
		assert.Equal(t, []string{"I", "T"}, ParamNames(sum.TypeParams))
		assert.Equal(t, "any", sum.TypeParams[1].Constraint.String())
		require.Len(t, sum.Variants, 2)
		assert.Equal(t, []string{"T"}, ParamNames(sum.Variants[0].TypeParams))
		assert.Equal(t, "any", sum.Variants[0].TypeParams[0].Constraint.String())
		assert.Equal(t, "[]T", sum.Variants[0].Type.String())
		assert.Equal(t, []string{"I"}, ParamNames(sum.Variants[1].TypeParams))
	})

	t.Run("methods promoted through embedding", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"a.go": `package p

type Sum interface {
	isSum()
	Area() float64
}

type sealed struct{}

func (sealed) isSum() {}

type shape interface{ Area() float64 }

type Circle struct {
	sealed
	R float64
}

type Square struct {
	*sealed
	Side float64
}

type Poly[T any] struct {
	sealed
	shape
	Points []T
}

type Loop struct {
	Loop2
}

type Loop2 struct {
	*Loop
}

func (Circle) Area() float64  { return 0 }
func (*Square) Area() float64 { return 0 }
`})
		sum := pkg.Lookup("Sum")
		assert.Equal(t, []string{"Circle", "Square", "Poly"}, variantNames(sum))
	})

	t.Run("marker helpers are not variants", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"a.go": `package p

type Sum interface{ isSum() }

type sealed struct{}

func (sealed) isSum() {}

type Circle struct {
	sealed
	R float64
}

type Point struct{ sealed }

type Base struct{ ID int }

func (Base) isSum() {}

type Derived struct {
	Base
	Name string
}
`})
		assert.Equal(t, []string{"Circle", "Point", "Base", "Derived"}, variantNames(pkg.Lookup("Sum")))
		sum := pkg.Lookup("Sum")
		assert.Equal(t, []string{"sealed"}, sum.Variants[0].Helpers)
		assert.Equal(t, []string{"sealed"}, sum.Variants[1].Helpers)
		assert.Empty(t, sum.Variants[3].Helpers)
	})

	t.Run("loads files generated by other tools", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{
			"a.go": "package p\n\ntype Sum interface{ isSum() }\n",
			"sum.pb.go": `// Code generated by protoc-gen-go. DO NOT EDIT.

package p

type Oneof struct{ Value string }

func (*Oneof) isSum() {}
`,
		})
		assert.NotNil(t, pkg.Lookup("Oneof"))
		assert.Equal(t, []string{"Oneof"}, variantNames(pkg.Lookup("Sum")))
	})

	t.Run("skips generated files", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{
			"a.go": "package p\n\ntype Sum interface{ isSum() }\n",
			"sum_box.go": `// Code generated by boxgen. DO NOT EDIT.

package p

type Stale struct{}

func (Stale) isSum() {}
`,
		})
		assert.Nil(t, pkg.Lookup("Stale"))
		assert.Empty(t, pkg.Lookup("Sum").Variants)
	})

	t.Run("records import tables", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"a.go": `package p

import (
	"time"
	js "github.com/goccy/go-json"
	. "strings"
	_ "embed"
)

type Sum interface{ isSum() }
type V struct {
	At  time.Time
	Raw js.RawMessage
	B   Builder
}

func (V) isSum() {}
`})
		v := pkg.Lookup("Sum").Variants[0]
		imp, ok := v.Type.Imports.Lookup("time")
		require.True(t, ok)
		assert.Equal(t, Import{Path: "time", Name: "time"}, imp)
		imp, ok = v.Type.Imports.Lookup("js")
		require.True(t, ok)
		assert.Equal(t, Import{Path: "github.com/goccy/go-json", Name: "js", Alias: true}, imp)
		_, ok = v.Type.Imports.Lookup("_")
		assert.False(t, ok)
		assert.Equal(t, []string{"strings"}, v.Type.DotImports)
	})

	t.Run("positions use base file names", func(t *testing.T) {
		pkg := parseFiles(t, map[string]string{"dir/a.go": "package p\n\ntype Sum interface{ isSum() }\n"})
		assert.Equal(t, "a.go:3:6", pkg.Lookup("Sum").Pos)
	})
}

func TestSelect(t *testing.T) {
	pkg := parseFiles(t, map[string]string{"a.go": `package p

//boxgen:shorthand
type A interface{ a() }
type B interface{ b() }
type C struct{}
`})
	names := func(decls []*Decl) []string {
		var out []string
		for _, d := range decls {
			out = append(out, d.Name)
		}
		return out
	}
	assert.Equal(t, []string{"A"}, names(pkg.Select()))
	assert.Equal(t, []string{"A", "C"}, names(pkg.Select("C")))
	assert.Equal(t, []string{"A", "B"}, names(pkg.Select("B", "A")))
	assert.Equal(t, []string{"A"}, names(pkg.Select("Missing")))
}

func TestGuessName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"time", "time"},
		{"net/http", "http"},
		{"gopkg.in/yaml.v3", "yaml"},
		{"github.com/goccy/go-json", "json"},
		{"github.com/spf13/cobra", "cobra"},
		{"github.com/go-openapi/inflect", "inflect"},
		{"github.com/foo/bar/v2", "bar"},
		{"github.com/foo/lib-go", "lib"},
		{"example.com/some-pkg", "some_pkg"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, GuessName(tt.path))
		})
	}
}

func TestPackages(t *testing.T) {
	t.Run("loads sum types and variants", func(t *testing.T) {
		pkgs, err := Packages(context.Background(), &Config{Dir: "testdata"}, "./valid")
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		pkg := pkgs[0]
		assert.Equal(t, "valid", pkg.Name)
		assert.Equal(t, "github.com/syssam/boxgen/compiler/load/testdata/valid", pkg.Path)

		event := pkg.Lookup("Event")
		require.NotNil(t, event)
		assert.Equal(t, KindSum, event.Kind)
		assert.True(t, event.Annotated)
		assert.Equal(t, []string{"Started", "Stopped", "Resized", "Tick"}, variantNames(event))
		assert.Contains(t, event.Pos, "event.go:")

		imp, ok := event.Variants[0].Type.Imports.Lookup("time")
		require.True(t, ok)
		assert.Equal(t, "time", imp.Path)

		list := pkg.Lookup("List")
		require.NotNil(t, list)
		assert.False(t, list.Annotated)
		assert.Equal(t, []string{"Cons", "Nil"}, variantNames(list))
		assert.Equal(t, KindInterface, pkg.Lookup("Number").Kind)
		assert.Nil(t, pkg.Lookup("Stale"))

		value := pkg.Lookup("Value")
		require.NotNil(t, value)
		assert.Equal(t, []string{"Text", "Raw"}, variantNames(value))
	})

	t.Run("honors build flags", func(t *testing.T) {
		pkgs, err := Packages(context.Background(), &Config{Dir: "testdata"}, "./buildflags")
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		assert.Equal(t, []string{"Circle", "Square"}, variantNames(pkgs[0].Lookup("Shape")))

		pkgs, err = Packages(context.Background(), &Config{Dir: "testdata", BuildFlags: []string{"-tags=nosquare"}}, "./buildflags")
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		assert.Equal(t, []string{"Circle"}, variantNames(pkgs[0].Lookup("Shape")))
	})

	t.Run("reports syntax errors", func(t *testing.T) {
		_, err := Packages(context.Background(), &Config{Dir: "testdata"}, "./failure")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrLoadFailed))
		var pkgErr *PackageError
		require.True(t, errors.As(err, &pkgErr))
		assert.NotEmpty(t, pkgErr.Errors)
	})
}

func TestErrors(t *testing.T) {
	t.Run("PackageError unwraps every error", func(t *testing.T) {
		first, second := errors.New("first"), errors.New("second")
		err := &PackageError{Package: "example.com/p", Errors: []error{first, second}}

		assert.Equal(t, "boxgen: package example.com/p: first; second", err.Error())
		assert.True(t, errors.Is(err, first))
		assert.True(t, errors.Is(err, second))
		assert.True(t, errors.Is(err, ErrLoadFailed))
	})

	t.Run("NotFoundError lists packages", func(t *testing.T) {
		err := &NotFoundError{Name: "Hello", Packages: []string{"a", "b"}}

		assert.Equal(t, "boxgen: type Hello not found in a, b", err.Error())
		assert.True(t, errors.Is(err, ErrTypeNotFound))
		assert.False(t, errors.Is(err, ErrLoadFailed))
	})
}
