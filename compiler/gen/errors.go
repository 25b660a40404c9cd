package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/boxgen/compiler/load"
)

// Sentinel errors for common failure cases.
var (
	// ErrUnsupportedDeclarationKind indicates the annotated declaration is not a sum type.
	ErrUnsupportedDeclarationKind = errors.New("boxgen: unsupported declaration kind")
	// ErrInvalidVariant indicates a variant that cannot be given a boxed constructor.
	ErrInvalidVariant = errors.New("boxgen: invalid variant")
	// ErrInvalidConfig indicates an invalid configuration value.
	ErrInvalidConfig = errors.New("boxgen: invalid configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("boxgen: code generation failed")
)

// UnsupportedDeclarationKindError reports an annotation on a declaration
// that is not a sum type.
type UnsupportedDeclarationKindError struct {
	Type string
	Kind load.DeclKind
	Pos  string
}

// Error implements the error interface.
func (e *UnsupportedDeclarationKindError) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "boxgen: cannot create box shorthand for %s type %s", e.Kind, e.Type)
	if e.Kind == load.KindInterface {
		b.WriteString(" (a sum type interface must declare at least one method and no type terms)")
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for UnsupportedDeclarationKindError.
func (e *UnsupportedDeclarationKindError) Is(target error) bool {
	return target == ErrUnsupportedDeclarationKind
}

// VariantError represents a variant that cannot be given a boxed constructor.
type VariantError struct {
	Type    string // Sum type name
	Variant string
	Field   string // Field name (if applicable)
	Pos     string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *VariantError) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString("boxgen: variant error")
	if e.Variant != "" {
		b.WriteString(" on ")
		if e.Type != "" {
			b.WriteString(e.Type)
			b.WriteString(".")
		}
		b.WriteString(e.Variant)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *VariantError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for VariantError.
func (e *VariantError) Is(target error) bool {
	return target == ErrInvalidVariant
}

// NewVariantError creates a new VariantError.
func NewVariantError(sum string, v *load.Variant, field, message string, cause error) *VariantError {
	return &VariantError{
		Type:    sum,
		Variant: v.Name,
		Field:   field,
		Pos:     v.Pos,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("boxgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("boxgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "type", "render", "format", "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("boxgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsUnsupportedDeclarationKind reports whether the error is an UnsupportedDeclarationKindError.
func IsUnsupportedDeclarationKind(err error) bool {
	var kindErr *UnsupportedDeclarationKindError
	return errors.As(err, &kindErr)
}

// IsVariantError reports whether the error is a VariantError.
func IsVariantError(err error) bool {
	var variantErr *VariantError
	return errors.As(err, &variantErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
