package reload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher turns filesystem changes under a set of directories into reload
// commands.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	log      *slog.Logger
}

// NewWatcher returns a watcher for dirs and their subdirectories.
func NewWatcher(dirs []string, debounce time.Duration, log *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dirs: dirs, debounce: debounce, log: log}
}

// Run sends CommandReload to out after each burst of changes, until ctx is done.
func (w *Watcher) Run(ctx context.Context, out chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range w.dirs {
		w.addTree(watcher, root)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))

			// new subdirectories are not watched automatically
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				w.addTree(watcher, event.Name)
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case out <- CommandReload:
				case <-ctx.Done():
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		w.log.Warn("directory not found, not watching", slog.String("dir", root))
		return
	}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("walk error", slog.String("path", path), slog.Any("error", err))
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				w.log.Warn("failed to watch", slog.String("dir", path), slog.Any("error", err))
			}
		}
		return nil
	})
	if err != nil {
		w.log.Warn("walk failed", slog.String("dir", root), slog.Any("error", err))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
