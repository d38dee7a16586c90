// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// watcher invalidates the listing cache when files under the root change.
// External edits to the corpus (editors, git pulls) would otherwise serve
// stale listings until the next apply.
type watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// Watch starts a filesystem watcher over the corpus root and all of its
// subdirectories. Any create, write, remove, or rename event drops the
// cached listing. Call StopWatching to release the watcher.
func (ix *Index) Watch() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.watcher != nil {
		return fmt.Errorf("watcher already running for %s", ix.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}

	// Watch the root and every subdirectory; fsnotify is not recursive.
	err = filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != ix.root {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch corpus tree: %w", err)
	}

	w := &watcher{fsw: fsw, done: make(chan struct{})}
	ix.watcher = w
	go ix.watchLoop(w)
	slog.Info("Watching documentation tree for changes", "root", ix.root)
	return nil
}

// StopWatching stops the filesystem watcher if one is running.
func (ix *Index) StopWatching() {
	ix.mu.Lock()
	w := ix.watcher
	ix.watcher = nil
	ix.mu.Unlock()
	if w != nil {
		w.stop()
	}
}

func (w *watcher) stop() {
	w.once.Do(func() {
		close(w.done)
		w.fsw.Close()
	})
}

func (ix *Index) watchLoop(w *watcher) {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need their own watch to keep coverage recursive.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(event.Name)
				}
			}
			slog.Debug("Corpus changed, invalidating cache", "path", event.Name, "op", event.Op.String())
			ix.Invalidate()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("Filesystem watcher error", "error", err)
		}
	}
}
