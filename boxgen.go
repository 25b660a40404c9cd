// Package boxgen generates boxed constructors for Go sum types.
//
// A sum type is a sealed interface: an interface type declaring one or more
// marker methods, implemented by a closed set of named types in the same
// package (the variants). Annotating the interface with the Directive
//
//	//boxgen:shorthand
//	type Shape interface{ isShape() }
//
// makes the generator emit a companion namespace type, named after the sum
// type with Suffix appended, holding one method per variant. Each method
// builds the variant on the heap and returns it as the sum type:
//
//	var s Shape = ShapeB{}.Circle(2.5)
//
// See the compiler package for the generation pipeline and cmd/boxgen for
// the command line tool.
package boxgen

const (
	// Directive marks a type declaration for generation when it appears as
	// a line of the declaration's doc comment.
	Directive = "boxgen:shorthand"

	// Suffix is appended to the sum type name to name its companion namespace.
	Suffix = "B"

	// GeneratedHeader is the first line of every generated file. Files of
	// a package starting with it are ignored when the package is loaded.
	GeneratedHeader = "Code generated by boxgen. DO NOT EDIT."
)

// Version is the boxgen release, overridden at link time.
var Version = "v0.1.0"
