package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/syssam/boxgen/compiler/gen"
)

// addGenerateFlags registers the flags shared by every command that loads
// or generates packages.
func addGenerateFlags(fs *pflag.FlagSet) {
	fs.StringSliceP("type", "t", nil, "generate for the named types even without the directive (repeatable)")
	fs.String("config", "", "YAML configuration file; flags override its settings")
	fs.String("header", "", "extra header comment for generated files")
	fs.String("tags", "", "build constraint expression added to generated files")
	fs.String("suffix", gen.DefaultFileSuffix, "suffix of generated file names")
	fs.Int("workers", 0, "files rendered in parallel (0=GOMAXPROCS)")
	fs.StringSlice("build-flags", nil, "flags passed to the build system when loading packages")
	fs.Bool("dry-run", false, "print generated files instead of writing them")
	fs.StringP("dir", "C", "", "load packages relative to this directory")
}

// configFromFlags builds the generation config of cmd. Settings from
// --config are applied first and explicitly set flags override them.
func configFromFlags(cmd *cobra.Command) (*gen.Config, error) {
	flags := cmd.Flags()
	var opts []gen.Option

	path, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		opts = append(opts, gen.WithConfigFile(path))
	}
	if flags.Changed("header") {
		v, _ := flags.GetString("header")
		opts = append(opts, gen.WithHeader(v))
	}
	if flags.Changed("tags") {
		v, _ := flags.GetString("tags")
		opts = append(opts, gen.WithBuildTags(v))
	}
	if flags.Changed("suffix") {
		v, _ := flags.GetString("suffix")
		opts = append(opts, gen.WithFileSuffix(v))
	}
	if flags.Changed("workers") {
		v, _ := flags.GetInt("workers")
		opts = append(opts, gen.WithWorkers(v))
	}
	if flags.Changed("type") {
		v, _ := flags.GetStringSlice("type")
		opts = append(opts, gen.WithTypes(v...))
	}
	if flags.Changed("build-flags") {
		v, _ := flags.GetStringSlice("build-flags")
		opts = append(opts, gen.WithBuildFlags(v...))
	}
	if flags.Changed("dir") {
		v, _ := flags.GetString("dir")
		opts = append(opts, gen.WithDir(v))
	}
	if dry, _ := flags.GetBool("dry-run"); dry {
		opts = append(opts, gen.WithDryRun(cmd.OutOrStdout()))
	}
	verbose, _ := flags.GetBool("verbose")
	opts = append(opts, gen.WithLogger(newLogger(cmd.ErrOrStderr(), verbose)))

	return gen.NewConfig(opts...)
}

// newLogger returns a text logger at info level, or debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setupColor enables or disables colored output. In auto mode colors are
// used only when f is a terminal and NO_COLOR is unset.
func setupColor(mode string, f *os.File) error {
	switch strings.ToLower(mode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(f.Fd()))
	default:
		return fmt.Errorf("invalid --color value %q (want auto|on|off)", mode)
	}
	return nil
}
