package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typeCheck type-checks the given sources as a single package.
func typeCheck(t *testing.T, sources ...string) {
	t.Helper()
	fset := token.NewFileSet()
	files := make([]*ast.File, len(sources))
	for i, src := range sources {
		f, err := parser.ParseFile(fset, "", src, parser.ParseComments)
		require.NoError(t, err, src)
		files[i] = f
	}
	conf := types.Config{Importer: importer.Default()}
	_, err := conf.Check("example.com/p", fset, files, nil)
	require.NoError(t, err)
}

func TestRender(t *testing.T) {
	t.Run("generic sum type", func(t *testing.T) {
		out := renderString(t, mustNamespace(t, helloSrc, "Hello"))

		assert.Contains(t, out, "// HelloB groups the boxed constructors of the Hello variants.\n//\n//nolint:revive,stylecheck\ntype HelloB[I any, T any] struct{}")
		assert.Contains(t, out, "func (HelloB[I, T]) StringRef(field0 string) Hello[I, T] {\n\tbox := StringRef(field0)\n\treturn &box\n}")
		assert.Contains(t, out, "func (HelloB[I, T]) Vector(field0 []T) Hello[I, T] {\n\tbox := Vector[T](field0)\n\treturn &box\n}")
		assert.Contains(t, out, "func (HelloB[I, T]) It(field0 I, field1 I) Hello[I, T] {\n\treturn &It[I]{field0, field1}\n}")
		assert.Contains(t, out, "// It returns a new It boxed as Hello.")
		typeCheck(t, helloSrc, out)
	})

	t.Run("variants sealed by an embedded helper", func(t *testing.T) {
		src := `package p

type Sum interface {
	isSum()
	Area() float64
}

type sealed struct{}

func (sealed) isSum() {}

type Circle struct {
	sealed
	R float64
}

type Origin struct{ sealed }

func (Circle) Area() float64 { return 0 }
func (Origin) Area() float64 { return 0 }
`
		ns := mustNamespace(t, src, "Sum")
		assert.Equal(t, []string{"Circle", "Origin"}, funcNames(ns))
		out := renderString(t, ns)
		assert.Contains(t, out, "func (SumB) Circle(R float64) Sum {\n\treturn &Circle{R: R}\n}")
		assert.Contains(t, out, "func (SumB) Origin() Sum {\n\treturn &Origin{}\n}")
		assert.NotContains(t, out, "func (SumB) sealed")
		typeCheck(t, src, out)
	})

	t.Run("arrays passed whole", func(t *testing.T) {
		src := `package p

import "crypto/sha256"

const N = 2

type Sum interface{ isSum() }

type Digest [sha256.Size]byte
type Pair [N]int
type Buf [4096]byte

func (Digest) isSum() {}
func (Pair) isSum()   {}
func (Buf) isSum()    {}
`
		out := renderString(t, mustNamespace(t, src, "Sum"))
		assert.Contains(t, out, "func (SumB) Digest(field0 [sha256.Size]byte) Sum {\n\tbox := Digest(field0)\n\treturn &box\n}")
		assert.Contains(t, out, "func (SumB) Pair(field0 [N]int) Sum {")
		assert.Contains(t, out, "func (SumB) Buf(field0 [4096]byte) Sum {")
		typeCheck(t, src, out)
	})

	t.Run("every shape", func(t *testing.T) {
		src := `package p

import "time"

type Shape interface{ isShape() }

type Empty struct{}
type Point struct{ X, Y int }
type Pair [2]string
type Label string
type Stamp struct {
	time.Time
	Note string
}

func (*Empty) isShape() {}
func (Point) isShape()  {}
func (Pair) isShape()   {}
func (Label) isShape()  {}
func (Stamp) isShape()  {}
`
		out := renderString(t, mustNamespace(t, src, "Shape"))

		assert.Contains(t, out, "type ShapeB struct{}")
		assert.Contains(t, out, "func (ShapeB) Empty() Shape {\n\treturn &Empty{}\n}")
		assert.Contains(t, out, "func (ShapeB) Point(X int, Y int) Shape {\n\treturn &Point{X: X, Y: Y}\n}")
		assert.Contains(t, out, "func (ShapeB) Pair(field0 string, field1 string) Shape {\n\treturn &Pair{field0, field1}\n}")
		assert.Contains(t, out, "func (ShapeB) Label(field0 string) Shape {")
		assert.Contains(t, out, "func (ShapeB) Stamp(Time time.Time, Note string) Shape {")
		assert.Contains(t, out, "return &Stamp{Time: Time, Note: Note}")
		assert.Contains(t, out, `import "time"`)
		typeCheck(t, src, out)
	})

	t.Run("sum type without variants", func(t *testing.T) {
		src := "package p\n\ntype Never interface{ isNever() }\n"
		out := renderString(t, mustNamespace(t, src, "Never"))
		assert.Contains(t, out, "type NeverB struct{}")
		assert.NotContains(t, out, "func ")
		typeCheck(t, src, out)
	})

	t.Run("constrained type parameters", func(t *testing.T) {
		src := `package p

import "fmt"

type Tree[K comparable, V fmt.Stringer] interface{ isTree() }

type Leaf[V fmt.Stringer] struct{ Value V }
type Node[K comparable, V fmt.Stringer] struct {
	Key         K
	Left, Right Tree[K, V]
}

func (Leaf[V]) isTree()    {}
func (Node[K, V]) isTree() {}
`
		out := renderString(t, mustNamespace(t, src, "Tree"))
		assert.Contains(t, out, "type TreeB[K comparable, V fmt.Stringer] struct{}")
		assert.Contains(t, out, "func (TreeB[K, V]) Leaf(Value V) Tree[K, V] {\n\treturn &Leaf[V]{Value: Value}\n}")
		assert.Contains(t, out, "func (TreeB[K, V]) Node(Key K, Left Tree[K, V], Right Tree[K, V]) Tree[K, V] {")
		assert.Contains(t, out, "&Node[K, V]{")
		typeCheck(t, src, out)
	})

	t.Run("deterministic", func(t *testing.T) {
		ns := mustNamespace(t, helloSrc, "Hello")
		first := renderString(t, ns)
		for range 5 {
			assert.Equal(t, first, renderString(t, mustNamespace(t, helloSrc, "Hello")))
		}
	})
}

func TestRenderUnsupportedShape(t *testing.T) {
	ns := &Namespace{Name: "SB", Sum: "S", Funcs: []*Func{{Name: "V"}}}
	err := Render(jen.NewFile("p"), ns)
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.Contains(t, err.Error(), "S.V")
}
