package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/boxgen/compiler/load"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [flags] [packages]",
		Short: "Print the sum types and variants boxgen sees",
		Long: `inspect loads the given packages (default ".") and prints their type
declarations with the sum type variants discovered for them, without
generating anything.`,
		RunE: runInspect,
	}
	cmd.Flags().String("format", "yaml", "output format (yaml|json)")
	cmd.Flags().Bool("all", false, "print every declaration, not only sum types")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	pkgs, err := load.Packages(cmd.Context(), &load.Config{Dir: cfg.Dir, BuildFlags: cfg.BuildFlags}, args...)
	if err != nil {
		return err
	}
	if !all {
		for _, pkg := range pkgs {
			pkg.Decls = sumTypes(pkg)
		}
	}
	return encode(cmd.OutOrStdout(), strings.ToLower(format), pkgs)
}

// sumTypes filters the declarations of pkg down to sum types.
func sumTypes(pkg *load.Package) []*load.Decl {
	var out []*load.Decl
	for _, d := range pkg.Decls {
		if d.Kind == load.KindSum {
			out = append(out, d)
		}
	}
	return out
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want yaml|json)", format)
	}
}
