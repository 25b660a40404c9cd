// Package gen generates boxed constructors for Go sum types.
//
// A sum type is a sealed interface: an interface declaring at least one
// method, whose variants are the named types of the same package that
// declare all of those methods.
//
//	//boxgen:shorthand
//	type Hello[I any, T any] interface{ isHello() }
//
//	type StringRef string
//	type Vector[T any] []T
//	type It[I any] [2]I
//
// For every sum type the package builds a companion namespace, a zero-size
// type named after the sum type with a "B" suffix, holding one method per
// variant. Each method allocates the variant on the heap and returns it
// boxed behind the sum type:
//
//	h := HelloB[int, string]{}.Vector([]string{"a"})
//
// # Pipeline
//
//	load.Decl
//	    ↓ Generate
//	Namespace (one Func per variant, with its Shape)
//	    ↓ Render
//	*jen.File
//	    ↓ JenniferGenerator
//	<sum>_box.go
//
// Generate is pure and fails without partial output when the declaration
// is not a sum type or a variant cannot be built by a generated function.
// The JenniferGenerator renders every namespace in memory, in parallel,
// before writing any file.
//
// # Shapes
//
// The construction of a variant depends on its shape:
//
//   - UnitShape: struct{}, built as &V{}.
//   - PositionalShape: [N]E arrays with a literal N up to MaxArrayFields
//     take N parameters field0..fieldN-1 and are built with a composite
//     literal; any other non-struct type takes field0 and is built with a
//     conversion.
//   - NamedShape: structs take one parameter per field, named after it.
//
// # Error Handling
//
//   - UnsupportedDeclarationKindError: the declaration is not a sum type
//   - VariantError: a variant cannot be given a constructor
//   - ConfigError: invalid configuration
//   - GenerationError: rendering, formatting or writing failed
//
// Every error type matches a sentinel with errors.Is:
//
//	if errors.Is(err, gen.ErrUnsupportedDeclarationKind) {
//	    // annotation on a struct, alias, constraint...
//	}
//
// # Configuration
//
// Configuration uses functional options:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithBuildTags("!js"),
//	    gen.WithFileSuffix(".box.go"),
//	    gen.WithConfigFile("boxgen.yaml"),
//	)
package gen
