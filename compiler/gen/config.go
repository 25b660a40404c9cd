package gen

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultFileSuffix is appended to the snake-cased sum type name to form
// the name of its generated file.
const DefaultFileSuffix = "_box.go"

// Config holds the global configuration of a generation run.
type Config struct {
	// Header is an extra comment block rendered after the generated-code
	// header of every file.
	Header string `yaml:"header,omitempty"`

	// BuildTags is a build constraint expression added as a //go:build line.
	BuildTags string `yaml:"build_tags,omitempty"`

	// FileSuffix of generated files. Defaults to DefaultFileSuffix.
	FileSuffix string `yaml:"file_suffix,omitempty"`

	// Workers bounds the number of files rendered in parallel.
	// Defaults to GOMAXPROCS.
	Workers int `yaml:"workers,omitempty"`

	// Types names declarations to generate for in addition to the ones
	// carrying the directive.
	Types []string `yaml:"types,omitempty"`

	// BuildFlags are passed to the build system when loading packages.
	BuildFlags []string `yaml:"build_flags,omitempty"`

	// Dir is the directory package patterns are resolved in.
	// Empty means the current directory.
	Dir string `yaml:"-"`

	// DryRun renders files to Output instead of writing them.
	DryRun bool `yaml:"-"`

	// Output receives rendered files in dry-run mode. Defaults to stdout.
	Output io.Writer `yaml:"-"`

	// Logger receives progress messages. Defaults to a discarding logger.
	Logger *slog.Logger `yaml:"-"`
}

// defaults fills the zero fields of c.
func (c *Config) defaults() {
	if c.FileSuffix == "" {
		c.FileSuffix = DefaultFileSuffix
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// ReadConfigFile decodes a YAML configuration file into options, in the
// order header, build_tags, file_suffix, workers, types, build_flags.
// Unknown keys are rejected.
func ReadConfigFile(path string) ([]Option, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewConfigError("ConfigFile", path, err.Error())
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig is like ReadConfigFile, reading from r.
func DecodeConfig(r io.Reader) ([]Option, error) {
	var file Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, NewConfigError("ConfigFile", nil, err.Error())
	}
	var opts []Option
	if file.Header != "" {
		opts = append(opts, WithHeader(file.Header))
	}
	if file.BuildTags != "" {
		opts = append(opts, WithBuildTags(file.BuildTags))
	}
	if file.FileSuffix != "" {
		opts = append(opts, WithFileSuffix(file.FileSuffix))
	}
	if file.Workers != 0 {
		opts = append(opts, WithWorkers(file.Workers))
	}
	if len(file.Types) > 0 {
		opts = append(opts, WithTypes(file.Types...))
	}
	if len(file.BuildFlags) > 0 {
		opts = append(opts, WithBuildFlags(file.BuildFlags...))
	}
	return opts, nil
}
