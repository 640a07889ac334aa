// Package watcher turns bursts of file system changes into debounced batches.
//
// # Overview
//
// Editors, formatters and git checkouts touch many files in quick
// succession. FileWatcher collects the changed paths and hands them to the
// callback only after the tree has been quiet for the debounce delay, so a
// checkout of 200 files produces one batch instead of 200 callbacks.
//
// # Architecture
//
//   - FileWatcher: pending path set plus a limiter.Debouncer over snapshots
//     of that set
//   - Filters: ignored directories, hidden files, temp extensions
//   - Watch: fsnotify integration that feeds FileChanged
//
// # Usage
//
//	w := watcher.New(watcher.Config{DebounceDelay: 2 * time.Second}, func(paths []string) {
//	    slog.Info("changed", "paths", paths)
//	})
//	defer w.Stop()
//	if err := w.Watch(ctx, "."); err != nil {
//	    return err
//	}
package watcher
