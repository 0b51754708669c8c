package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/plus3/pandawalk/framework"
	"github.com/plus3/pandawalk/scenefile"
	"github.com/plus3/pandawalk/task"
)

// watcher parses the scene file whenever it changes and hands the newest
// manifest to the frame loop.
type watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	updates chan *scenefile.Manifest
	done    chan struct{}
}

func newWatcher(path string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	// Editors often replace the file, so the directory is watched.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", path)
	}

	w := &watcher{
		path:    filepath.Clean(path),
		fsw:     fsw,
		updates: make(chan *scenefile.Manifest, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("scene watcher error", "err", err)
		}
	}
}

func (w *watcher) reload() {
	m, err := scenefile.Load(w.path)
	if err != nil {
		slog.Warn("scene file not reloaded", "file", w.path, "err", err)
		return
	}

	// Keep only the newest manifest.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- m
}

// reloadTask rebuilds the scene after the frame in which a new manifest
// arrives.
func (w *watcher) reloadTask(fw *framework.Framework, current *scenefile.Scene) task.Func {
	return func(frame *task.Frame) task.DoneStatus {
		select {
		case m := <-w.updates:
			frame.Commands.Defer(func() {
				current.Teardown(fw)
				next, err := scenefile.Build(fw, m)
				if err != nil {
					slog.Warn("scene rebuild failed", "file", w.path, "err", err)
					return
				}
				*current = *next
				slog.Info("scene reloaded", "file", w.path, "nodes", fw.Graph().Len())
			})
		default:
		}
		return task.Cont
	}
}

func (w *watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
