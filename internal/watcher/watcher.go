package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/billie-coop/settle/internal/csync"
	"github.com/billie-coop/settle/internal/limiter"
)

// ErrStopped is returned by Watch after Stop.
var ErrStopped = errors.New("watcher: stopped")

// Config holds watcher configuration.
type Config struct {
	DebounceDelay time.Duration
	// IgnorePaths are path fragments to skip, added to the defaults.
	IgnorePaths []string
	Clock       limiter.Clock
	Logger      *slog.Logger
}

// FileWatcher monitors file system changes with debouncing.
// It collects rapid changes and triggers a single callback after things settle.
type FileWatcher struct {
	delay       time.Duration
	ignorePaths []string
	logger      *slog.Logger

	pending  *csync.Map[string, struct{}]
	debounce *limiter.Debouncer[[]string]
	onChange func([]string)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	stopped bool
}

// New creates a file watcher. onChange receives sorted paths after each
// quiet period.
func New(cfg Config, onChange func([]string)) *FileWatcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	w := &FileWatcher{
		delay:       cfg.DebounceDelay,
		ignorePaths: append(defaultIgnorePaths(), cfg.IgnorePaths...),
		logger:      cfg.Logger.With("component", "watcher"),
		pending:     csync.NewMap[string, struct{}](),
		onChange:    onChange,
	}
	w.debounce = limiter.NewDebouncer[[]string](
		limiter.WithClock(cfg.Clock),
		limiter.WithLogger(cfg.Logger),
		limiter.WithName("watcher"),
	)
	w.debounce.OnEmit(w.release)
	// Activate with an empty batch so the first real change is debounced
	// rather than emitted on the spot.
	_ = w.debounce.Observe(nil, w.delay)
	return w
}

// FileChanged notifies the watcher of a file change.
// Multiple rapid calls are debounced into a single onChange callback.
func (w *FileWatcher) FileChanged(path string) error {
	return w.FilesChanged([]string{path})
}

// FilesChanged notifies the watcher of several changes at once, such as a
// git checkout.
func (w *FileWatcher) FilesChanged(paths []string) error {
	added := false
	for _, path := range paths {
		if !w.shouldIgnore(path) {
			w.pending.Set(path, struct{}{})
			added = true
		}
	}
	if !added {
		return nil
	}
	return w.debounce.Observe(w.snapshot(), w.delay)
}

// Pending returns the number of paths waiting for the quiet period.
func (w *FileWatcher) Pending() int {
	return w.pending.Len()
}

// Stop disposes the debouncer and closes the fsnotify watcher, if any.
// Pending paths are discarded.
func (w *FileWatcher) Stop() error {
	w.debounce.Dispose()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	w.fsw = nil
	return err
}

// Watch registers root and every non-ignored directory below it with
// fsnotify and feeds events into FilesChanged until ctx is done or Stop is
// called. New directories are added as they appear.
func (w *FileWatcher) Watch(ctx context.Context, root string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		fsw.Close()
		return ErrStopped
	}
	w.fsw = fsw
	w.mu.Unlock()

	if err := w.addTree(fsw, root); err != nil {
		return err
	}
	w.logger.Info("watching", "root", root, "delay", w.delay)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *FileWatcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fsw, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "dir", event.Name, "err", err)
			}
		}
	}
	if err := w.FileChanged(event.Name); err != nil {
		w.logger.Warn("failed to record change", "path", event.Name, "err", err)
	}
}

func (w *FileWatcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *FileWatcher) snapshot() []string {
	return w.pending.SortedKeys(func(a, b string) bool { return a < b })
}

// release runs on emission. Paths that changed again after the snapshot
// stay pending and are covered by the next emission.
func (w *FileWatcher) release(paths []string) {
	if len(paths) == 0 {
		return
	}
	w.pending.DeleteAll(paths...)
	w.logger.Debug("batch released", "paths", len(paths))
	if w.onChange != nil {
		w.onChange(paths)
	}
}

// shouldIgnore checks if a path should be ignored.
func (w *FileWatcher) shouldIgnore(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, ignore := range w.ignorePaths {
		if strings.Contains(slashed, "/"+ignore+"/") ||
			strings.HasPrefix(slashed, ignore+"/") ||
			strings.HasSuffix(slashed, "/"+ignore) ||
			slashed == ignore {
			return true
		}
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." && base != ".." {
		return true
	}
	switch filepath.Ext(base) {
	case ".log", ".tmp", ".swp", ".swo":
		return true
	}
	return strings.HasSuffix(base, "~")
}

// defaultIgnorePaths returns directories we never want to watch.
func defaultIgnorePaths() []string {
	return []string{
		"node_modules",
		".git",
		"vendor",
		"build",
		"dist",
		"out",
		".next",
		"target",
		"__pycache__",
		".idea",
		".vscode",
		".settle",
	}
}
