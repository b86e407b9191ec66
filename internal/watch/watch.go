// Package watch rebuilds the generated container whenever project sources
// change. Events are debounced so editor write bursts and branch switches
// settle into a single rebuild; changes inside the container itself are
// ignored so a rebuild never triggers the next one.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/cronweave/internal/codegen"
	"github.com/roach88/cronweave/internal/config"
	"github.com/roach88/cronweave/internal/ir"
	"github.com/roach88/cronweave/internal/scan"
	"github.com/roach88/cronweave/internal/tspath"
)

// configFileNames are non-source files that still schedule a rebuild: the
// alias table and the project configuration are read fresh on every pass.
var configFileNames = map[string]bool{
	"tsconfig.json": true,
	"jsconfig.json": true,
	config.FileName: true,
}

// Watcher drives regenerate-on-change for one project root.
type Watcher struct {
	root      string
	cfg       config.Config
	container string
	aliases   *tspath.Cache
	exclude   map[string]bool

	// onBuild, when set, observes every completed rebuild. Result is nil
	// when the rebuild failed.
	onBuild func(*codegen.Result, error)

	buildMu sync.Mutex

	timerMu sync.Mutex
	timer   *time.Timer
}

// New prepares a watcher for a project root with a resolved configuration.
func New(projectRoot string, cfg config.Config) (*Watcher, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving watch root %q: %w", projectRoot, err)
	}

	exclude := make(map[string]bool, len(cfg.ExcludeDirs))
	for _, d := range cfg.ExcludeDirs {
		exclude[d] = true
	}

	return &Watcher{
		root:      root,
		cfg:       cfg,
		container: codegen.ContainerRoot(root, cfg.Container),
		aliases:   tspath.NewCache(),
		exclude:   exclude,
	}, nil
}

// SetOnBuild installs a hook observing every rebuild. Must be set before
// Run.
func (w *Watcher) SetOnBuild(fn func(*codegen.Result, error)) { w.onBuild = fn }

// Run builds once, then rebuilds on every settled filesystem change until
// the context is canceled. Rebuild failures are logged and watched
// through; only watcher setup failures are returned.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// The first pass runs before the watch set exists; the container and
	// any parent directories it creates must not surface as events.
	w.rebuild(ctx)

	if err := w.addTree(watcher, w.root); err != nil {
		return err
	}
	slog.Info("watching", "root", w.root, "debounce", w.cfg.WatchDebounce)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watch events closed")
			}
			w.handleEvent(ctx, watcher, ev)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watch errors closed")
			}
			if err != nil {
				slog.Warn("watch error", "root", w.root, "error", err)
			}
		}
	}
}

// handleEvent filters one event and schedules a rebuild when it concerns
// project sources.
func (w *Watcher) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if w.ignored(ev.Name) {
		return
	}

	// A new directory must join the watch set before its contents settle;
	// files written between creation and Add are covered by the rebuild
	// the creation itself schedules.
	if ev.Op&fsnotify.Create != 0 {
		_ = w.addTree(watcher, ev.Name)
	}

	if !w.relevant(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	slog.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
	w.schedule(ctx)
}

// schedule arms the debounce timer, restarting it if already armed.
func (w *Watcher) schedule(ctx context.Context) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.WatchDebounce, func() {
		w.rebuild(ctx)
	})
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// rebuild runs one scan and generation pass. Serialized: a debounce firing
// during a slow pass waits rather than interleaving container writes.
func (w *Watcher) rebuild(ctx context.Context) {
	w.buildMu.Lock()
	defer w.buildMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	w.aliases.Invalidate(w.root)

	opts := w.cfg.ScanOptions()
	opts.SkipPaths = []string{w.container}

	var res *codegen.Result
	files, err := scan.FindSourceFiles(w.root, opts)
	if err == nil {
		var sites []ir.CallSite
		sites, err = scan.Scan(ctx, files, w.root, opts)
		if err == nil {
			res, err = codegen.Generate(ctx, sites, w.root, codegen.Options{
				ContainerDir: w.cfg.Container,
				Aliases:      w.aliases,
			})
		}
	}

	if err != nil {
		slog.Error("rebuild failed", "root", w.root, "error", err)
	}
	if w.onBuild != nil {
		w.onBuild(res, err)
	}
}

// addTree watches path and every directory beneath it, skipping excluded
// names and the container. Passing a file is harmless.
func (w *Watcher) addTree(watcher *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == path && p == w.root {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && w.exclude[d.Name()] {
			return filepath.SkipDir
		}
		if w.ignored(p) {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			slog.Debug("watch add failed", "path", p, "error", err)
		}
		return nil
	})
}

// ignored reports whether a path belongs to generated output: the
// container tree or a staging directory beside it.
func (w *Watcher) ignored(path string) bool {
	if path == w.container || strings.HasPrefix(path, w.container+string(filepath.Separator)) {
		return true
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(seg, ".cron-stage-") {
			return true
		}
	}
	return false
}

// relevant reports whether a change to path can affect the next pass:
// scanned source extensions, the alias and project config files, and
// directories (a move-in carries sources without per-file events for the
// unwatched interior).
func (w *Watcher) relevant(path string) bool {
	base := filepath.Base(path)
	if configFileNames[base] {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.cfg.IncludeExts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() && !w.exclude[base] {
		return true
	}
	return false
}
