package gen

import (
	"errors"
	buildconstraint "go/build/constraint"
	"io"
	"log/slog"
	"strings"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets an extra header comment for every generated file.
// Lines without a "//" prefix are turned into line comments.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithBuildTags adds a //go:build constraint to every generated file.
// The expression must parse, e.g. "linux && !cgo".
func WithBuildTags(expr string) Option {
	return func(c *Config) error {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			c.BuildTags = ""
			return nil
		}
		if _, err := buildconstraint.Parse("//go:build " + expr); err != nil {
			return NewConfigError("BuildTags", expr, err.Error())
		}
		c.BuildTags = expr
		return nil
	}
}

// WithFileSuffix sets the suffix of generated file names.
// It must end in ".go" and must not name a test file.
func WithFileSuffix(suffix string) Option {
	return func(c *Config) error {
		switch {
		case !strings.HasSuffix(suffix, ".go") || suffix == ".go":
			return NewConfigError("FileSuffix", suffix, `suffix must end in ".go"`)
		case strings.HasSuffix(suffix, "_test.go"):
			return NewConfigError("FileSuffix", suffix, "generated files cannot be test files")
		case strings.ContainsAny(suffix, `/\`):
			return NewConfigError("FileSuffix", suffix, "suffix cannot contain a path separator")
		}
		c.FileSuffix = suffix
		return nil
	}
}

// WithWorkers sets the number of files rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithTypes forces generation for the named declarations, whether or not
// they carry the directive.
func WithTypes(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if name == "" {
				return NewConfigError("Types", nil, "type name cannot be empty")
			}
		}
		c.Types = append(c.Types, names...)
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithDir sets the directory package patterns are resolved in.
func WithDir(dir string) Option {
	return func(c *Config) error {
		c.Dir = dir
		return nil
	}
}

// WithDryRun renders files to w instead of writing them to disk.
func WithDryRun(w io.Writer) Option {
	return func(c *Config) error {
		c.DryRun = true
		c.Output = w
		return nil
	}
}

// WithLogger sets the logger receiving generation progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithConfigFile applies the options read from a YAML configuration file.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		opts, err := ReadConfigFile(path)
		if err != nil {
			return err
		}
		return c.Apply(opts...)
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options, filling defaults
// for anything left unset.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.defaults()
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
