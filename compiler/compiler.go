// Package compiler runs boxed-constructor generation end to end: it loads
// the requested packages, selects the sum types to generate for, builds
// their namespaces and writes one file per sum type.
package compiler

import (
	"context"
	"slices"

	"github.com/syssam/boxgen/compiler/gen"
	"github.com/syssam/boxgen/compiler/load"
)

// Result describes a successful generation run.
type Result struct {
	// Packages that were loaded.
	Packages []*load.Package
	// Namespaces that were generated, in package then source order.
	Namespaces []*gen.Namespace
	// Files that were written, or printed in dry-run mode.
	Files []*gen.File
}

// Generate loads the packages matching patterns (default ".") and generates
// the boxed constructors of every sum type carrying the directive or named
// by cfg.Types. No file is written unless every declaration succeeds.
func Generate(ctx context.Context, cfg *gen.Config, patterns ...string) (*Result, error) {
	if cfg == nil {
		cfg = &gen.Config{}
	}
	g := gen.NewJenniferGenerator(cfg)
	log := cfg.Logger
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	pkgs, err := load.Packages(ctx, &load.Config{Dir: cfg.Dir, BuildFlags: cfg.BuildFlags}, patterns...)
	if err != nil {
		return nil, err
	}
	decls, err := Select(pkgs, cfg.Types...)
	if err != nil {
		return nil, err
	}
	res := &Result{Packages: pkgs}
	if len(decls) == 0 {
		log.Warn("no sum types to generate for", "patterns", patterns)
		return res, nil
	}

	for _, decl := range decls {
		log.Debug("declaration", "package", decl.Package.Path, "type", decl.Name, "kind", decl.Kind, "pos", decl.Pos)
		ns, err := gen.Generate(decl)
		if err != nil {
			return nil, err
		}
		for _, fn := range ns.Funcs {
			log.Debug("variant", "type", decl.Name, "variant", fn.Name, "shape", gen.ShapeName(fn.Shape), "params", fn.Shape.Arity())
		}
		res.Namespaces = append(res.Namespaces, ns)
	}

	res.Files, err = g.Generate(ctx, res.Namespaces)
	if err != nil {
		return nil, err
	}
	log.Info("generation completed", "namespaces", len(res.Namespaces), "files", len(res.Files))
	return res, nil
}

// Select returns the declarations to generate for across pkgs: the ones
// carrying the directive plus the ones named in types. Every name in types
// must be declared by one of the packages.
func Select(pkgs []*load.Package, types ...string) ([]*load.Decl, error) {
	var (
		decls []*load.Decl
		found = make(map[string]bool, len(types))
	)
	for _, pkg := range pkgs {
		for _, d := range pkg.Select(types...) {
			found[d.Name] = true
			decls = append(decls, d)
		}
	}
	for _, name := range types {
		if found[name] {
			continue
		}
		paths := make([]string, len(pkgs))
		for i, pkg := range pkgs {
			paths[i] = pkg.Path
		}
		return nil, &load.NotFoundError{Name: name, Packages: slices.Compact(paths)}
	}
	return decls, nil
}
