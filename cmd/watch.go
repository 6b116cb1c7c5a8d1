package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of editor writes into one re-run.
const watchDebounce = 300 * time.Millisecond

// watchSpecs calls run every time a spec under root changes, until ctx ends.
func watchSpecs(ctx context.Context, root string, debounce time.Duration, run func()) error {
	w, err := newSpecWatcher(root)
	if err != nil {
		return err
	}
	return runWatch(ctx, w, debounce, run)
}

// newSpecWatcher watches root and its non-hidden subdirectories.
func newSpecWatcher(root string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot start file watcher: %w", err)
	}
	if err := addTree(w, root); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// runWatch consumes w's events, calling run once per burst of spec changes
// that stays quiet for debounce. It closes w on return.
func runWatch(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, run func()) error {
	defer w.Close()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !isHidden(ev.Name) {
					if err := addTree(w, ev.Name); err != nil {
						slog.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			if !specChanged(ev) {
				continue
			}
			slog.Debug("spec change", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		case <-fire:
			fire = nil
			run()
		}
	}
}

// addTree watches root and every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("cannot watch %s: %w", path, err)
		}
		return nil
	})
}

// specChanged reports whether ev can change search results.
func specChanged(ev fsnotify.Event) bool {
	if isHidden(ev.Name) {
		return false
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if strings.EqualFold(filepath.Ext(ev.Name), ".md") {
		return true
	}
	// A created, removed or renamed directory may hold specs.
	if ev.Has(fsnotify.Write) {
		return false
	}
	return filepath.Ext(ev.Name) == ""
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
