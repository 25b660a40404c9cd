package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/boxgen"
	"github.com/syssam/boxgen/compiler/load"
)

// GeneratedHeader is the first line of every generated file. It matches
// the convention recognized by ast.IsGenerated and the Go linters.
const GeneratedHeader = boxgen.GeneratedHeader

// File is a rendered, formatted source file ready to be written.
type File struct {
	// Path is the destination of the file.
	Path string
	// Sum is the sum type the file was generated for.
	Sum string
	// Content is the formatted source.
	Content []byte
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesRendered int
	FilesWritten  int
	TotalBytes    int64
}

// JenniferGenerator renders companion namespaces to Go files, one per sum
// type, next to the sum type's declaration.
type JenniferGenerator struct {
	cfg *Config

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewJenniferGenerator creates a generator for the given configuration.
// A nil cfg uses the defaults.
func NewJenniferGenerator(cfg *Config) *JenniferGenerator {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	return &JenniferGenerator{cfg: cfg}
}

// Metrics returns a snapshot of the generation metrics.
func (g *JenniferGenerator) Metrics() WriterMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// FileName returns the generated file name of a sum type.
func FileName(sum, suffix string) string {
	if suffix == "" {
		suffix = DefaultFileSuffix
	}
	return inflect.Underscore(sum) + suffix
}

// NewFile returns an empty file of pkg carrying the generated-code header,
// the build constraint and the extra header configured.
func (g *JenniferGenerator) NewFile(pkg *load.Package) *jen.File {
	f := jen.NewFilePathName(pkg.Path, pkg.Name)
	f.HeaderComment(GeneratedHeader)
	if g.cfg.BuildTags != "" {
		f.HeaderComment("//go:build " + g.cfg.BuildTags)
	}
	if g.cfg.Header != "" {
		for _, line := range strings.Split(strings.TrimRight(g.cfg.Header, "\n"), "\n") {
			if line = strings.TrimRight(line, " \t"); line == "" {
				line = "//"
			}
			f.HeaderComment(line)
		}
	}
	return f
}

// Render renders every namespace in memory, in parallel. Files are returned
// in the order of namespaces. Nothing is returned if any namespace fails.
func (g *JenniferGenerator) Render(ctx context.Context, namespaces []*Namespace) ([]*File, error) {
	files := make([]*File, len(namespaces))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for i, ns := range namespaces {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			f, err := g.renderFile(ns)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.Path]; ok {
			return nil, NewGenerationError("render", f.Path, fmt.Sprintf("sum types %s and %s map to the same file", prev, f.Sum), nil)
		}
		seen[f.Path] = f.Sum
	}
	return files, nil
}

func (g *JenniferGenerator) renderFile(ns *Namespace) (*File, error) {
	if ns.Package == nil {
		return nil, NewGenerationError("render", "", "namespace "+ns.Name+" has no package", nil)
	}
	path := filepath.Join(ns.Package.Dir, FileName(ns.Sum, g.cfg.FileSuffix))
	f := g.NewFile(ns.Package)
	if err := Render(f, ns); err != nil {
		return nil, NewGenerationError("render", path, "", err)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", path, "", err)
	}
	src, err := imports.Process(path, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, NewGenerationError("format", path, "", err)
	}
	g.mu.Lock()
	g.metrics.FilesRendered++
	g.mu.Unlock()
	g.cfg.Logger.Debug("rendered namespace", "namespace", ns.Name, "file", path, "funcs", len(ns.Funcs))
	return &File{Path: path, Sum: ns.Sum, Content: src}, nil
}

// Write writes rendered files to disk, or to the configured output in
// dry-run mode. Callers render every file before writing any, so a failed
// declaration never leaves partial output behind.
func (g *JenniferGenerator) Write(files []*File) error {
	for _, f := range files {
		if g.cfg.DryRun {
			if _, err := fmt.Fprintf(g.cfg.Output, "// %s\n%s\n", f.Path, f.Content); err != nil {
				return NewGenerationError("write", f.Path, "", err)
			}
			continue
		}
		if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
			return NewGenerationError("write", f.Path, "", err)
		}
		g.mu.Lock()
		g.metrics.FilesWritten++
		g.metrics.TotalBytes += int64(len(f.Content))
		g.mu.Unlock()
		g.cfg.Logger.Info("wrote file", "file", f.Path, "sum", f.Sum, "bytes", len(f.Content))
	}
	return nil
}

// Generate renders all namespaces and, only if every one succeeded,
// writes them.
func (g *JenniferGenerator) Generate(ctx context.Context, namespaces []*Namespace) ([]*File, error) {
	files, err := g.Render(ctx, namespaces)
	if err != nil {
		return nil, err
	}
	if err := g.Write(files); err != nil {
		return nil, err
	}
	return files, nil
}
