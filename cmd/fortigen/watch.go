package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/syssam/fortigen/compiler/load"
)

// watch runs fn once, then again after every burst of schema changes below
// root, until ctx is done. A burst ends after debounce without new events.
func watch(ctx context.Context, root string, debounce time.Duration, log *zap.Logger, fn func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := addTree(w, root); err != nil {
		return err
	}

	fn(ctx)
	log.Info("watching for schema changes", zap.String("root", root))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				// New directories must be watched too.
				_ = addTree(w, ev.Name)
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("schema changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			timer.Reset(debounce)
		case <-timer.C:
			fn(ctx)
		}
	}
}

// addTree watches dir and every directory below it. Non-directories are
// ignored.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant reports whether ev concerns a schema document.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(ev.Name)), ".")
	return slices.Contains(load.Extensions, ext)
}
