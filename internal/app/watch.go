package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatchStdin is returned when watch mode has no files to watch or is
// asked to re-read standard input.
var ErrWatchStdin = errors.New("watch mode needs input files, not stdin")

// DefaultWatchDebounce is how long Watch waits after the last change
// before running again.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watch runs the edit once, then again each time an input file or the
// script changes, writing every result to out. Failed runs are logged and
// do not stop watching. Watch returns nil when ctx is done.
func (app *Application) Watch(ctx context.Context, out io.Writer) error {
	watched, err := app.watchedPaths()
	if err != nil {
		return err
	}

	log := app.Logger().WithComponent("watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return &InitError{Component: "watch", Err: err}
	}
	defer w.Close()

	// Directories are watched so that editors replacing a file by rename
	// still produce events.
	dirs := make(map[string]bool)
	for path := range watched {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return NewOperationError("watch", dir, err)
		}
		dirs[dir] = true
	}

	run := func() {
		if err := app.Run(ctx, nil, out); err != nil && ctx.Err() == nil {
			log.Error("run failed: %v", err)
		}
	}
	run()

	timer := time.NewTimer(DefaultWatchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("%s: %s", ev.Op, ev.Name)
			timer.Reset(DefaultWatchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher: %v", err)

		case <-timer.C:
			run()
		}
	}
}

// watchedPaths returns the absolute, cleaned paths of the input files and
// script.
func (app *Application) watchedPaths() (map[string]bool, error) {
	if len(app.opts.Files) == 0 {
		return nil, ErrWatchStdin
	}

	names := append([]string(nil), app.opts.Files...)
	if app.opts.Script != "" {
		names = append(names, app.opts.Script)
	}

	watched := make(map[string]bool, len(names))
	for _, name := range names {
		if name == StdinName {
			return nil, ErrWatchStdin
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			return nil, NewOperationError("watch", name, err)
		}
		watched[filepath.Clean(abs)] = true
	}
	return watched, nil
}
