package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/taskvault/taskvault/internal/event"
)

// Watcher observes the vault directory tree and publishes markdown
// document changes on the bus. Directories are watched recursively;
// folders created while running are picked up as they appear.
type Watcher struct {
	vault *Local
	bus   *event.Bus
}

func NewWatcher(v *Local, bus *event.Bus) *Watcher {
	return &Watcher{vault: v, bus: bus}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.vault.BasePath()); err != nil {
		return err
	}
	slog.Info("watching vault", "path", w.vault.BasePath())

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handle(watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("fsnotify error", "error", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) handle(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, ev.Name); err != nil {
				slog.Warn("failed to watch new folder", "path", ev.Name, "error", err)
			}
			return
		}
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), MarkdownExt) {
		return
	}
	rel, ok := w.vault.Rel(ev.Name)
	if !ok {
		return
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		// Atomic replace (write temp, rename) lands here as well.
		w.bus.PublishNew(event.FileCreated, rel)
	case ev.Op&fsnotify.Write != 0:
		w.bus.PublishNew(event.FileModified, rel)
	case ev.Op&fsnotify.Rename != 0:
		w.bus.PublishNew(event.FileRenamed, rel)
	case ev.Op&fsnotify.Remove != 0:
		w.bus.PublishNew(event.FileDeleted, rel)
	}
}

func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
