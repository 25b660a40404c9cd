// Command boxgen generates boxed constructors for the sum types of Go
// packages. It is meant to be run by go generate:
//
//	//go:generate go run github.com/syssam/boxgen/cmd/boxgen
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/boxgen"
	"github.com/syssam/boxgen/compiler"
)

var errorColor = color.New(color.FgRed, color.Bold)

// newRootCmd builds the command tree. Generation runs on the root command;
// inspect, watch and version are subcommands.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "boxgen [flags] [packages]",
		Short: "Generate boxed constructors for Go sum types",
		Long: `boxgen finds the sum types of the given packages (default ".") and writes,
next to each of them, a companion namespace with one constructor per variant.

A sum type is an interface with at least one method, annotated with a
//boxgen:shorthand line in its doc comment or named with --type.`,
		Version:       boxgen.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := cmd.Flags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			return setupColor(mode, os.Stderr)
		},
		RunE: runGenerate,
	}

	addGenerateFlags(root.PersistentFlags())
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log every declaration and variant")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main executes the root command and exits with status 1 on failure.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	_, err = compiler.Generate(cmd.Context(), cfg, args...)
	return err
}

func printError(w io.Writer, err error) {
	errorColor.Fprint(w, "error:")
	fmt.Fprintf(w, " %v\n", err)
}
