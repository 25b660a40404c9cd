package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/boxgen/compiler"
	"github.com/syssam/boxgen/compiler/gen"
	"github.com/syssam/boxgen/compiler/load"
)

const debounce = 200 * time.Millisecond

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [flags] [packages]",
		Short: "Regenerate whenever the sources of the packages change",
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	ctx := cmd.Context()
	pkgs, err := load.Packages(ctx, &load.Config{Dir: cfg.Dir, BuildFlags: cfg.BuildFlags}, args...)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	for _, pkg := range pkgs {
		if pkg.Dir == "" {
			continue
		}
		if err := watcher.Add(pkg.Dir); err != nil {
			return fmt.Errorf("watch %s: %w", pkg.Dir, err)
		}
		cfg.Logger.Debug("watching", "dir", pkg.Dir)
	}

	regenerate := func() {
		if _, err := compiler.Generate(ctx, cfg, args...); err != nil {
			printError(cmd.ErrOrStderr(), err)
		}
	}
	regenerate()
	return watch(ctx, watcher, cfg, debounce, regenerate)
}

// watch calls fn once per burst of relevant source changes until ctx is
// done or the watcher is closed.
func watch(ctx context.Context, w *fsnotify.Watcher, cfg *gen.Config, delay time.Duration, fn func()) error {
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, cfg.FileSuffix) {
				continue
			}
			cfg.Logger.Debug("source changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(delay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cfg.Logger.Warn("watch error", "error", err)
		case <-timer.C:
			fn()
		}
	}
}

// relevant reports whether ev touches a hand-written Go source file.
func relevant(ev fsnotify.Event, suffix string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	switch {
	case !strings.HasSuffix(name, ".go"):
		return false
	case strings.HasSuffix(name, "_test.go"):
		return false
	case strings.HasSuffix(name, suffix):
		return false
	}
	return true
}
