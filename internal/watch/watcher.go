// Package watch triggers catalog rebuilds when the source tree changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/modcat/internal/storage"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 300 * time.Millisecond

// Config controls a watcher.
type Config struct {
	Root     string
	Debounce time.Duration
	// Relevant filters file events by name; nil accepts every file.
	Relevant func(name string) bool
}

// Watch starts an fsnotify watcher on the tree rooted at cfg.Root and calls
// onChange once per burst of relevant events, after cfg.Debounce of quiet,
// until ctx is cancelled. Hidden directories are not watched.
//
// New directories created at runtime are added to the watch list, and
// their creation alone counts as a change since they may already hold
// files.
func Watch(ctx context.Context, cfg Config, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, cfg.Root); err != nil {
		return err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger.Info("watcher: started", slog.String("root", cfg.Root), slog.Duration("debounce", debounce))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if storage.IsHidden(name) {
						continue
					}
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					schedule()
					continue
				}
			}

			// Removed or renamed directories cannot be stat'ed any more, so
			// anything that is not a relevant file still forces a rebuild
			// when it disappears.
			relevant := cfg.Relevant == nil || cfg.Relevant(name)
			gone := ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0
			if !relevant && !(gone && !storage.IsHidden(name)) {
				continue
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && storage.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
