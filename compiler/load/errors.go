package load

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for loading failures.
var (
	// ErrLoadFailed indicates packages could not be listed or parsed.
	ErrLoadFailed = errors.New("boxgen: load failed")
	// ErrTypeNotFound indicates a requested type is not declared in the package.
	ErrTypeNotFound = errors.New("boxgen: type not found")
)

// PackageError collects the errors reported for a package by the Go toolchain.
type PackageError struct {
	Package string
	Errors  []error
}

// Error implements the error interface.
func (e *PackageError) Error() string {
	var b strings.Builder
	b.WriteString("boxgen: package ")
	b.WriteString(e.Package)
	for i, err := range e.Errors {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying errors.
func (e *PackageError) Unwrap() []error {
	return e.Errors
}

// Is reports whether the target matches the sentinel error for PackageError.
func (e *PackageError) Is(target error) bool {
	return target == ErrLoadFailed
}

// NotFoundError reports a type requested by name that no package declares.
type NotFoundError struct {
	Name     string
	Packages []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("boxgen: type %s not found in %s", e.Name, strings.Join(e.Packages, ", "))
}

// Is reports whether the target matches the sentinel error for NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTypeNotFound
}
