// Package watcher implements file system watching for development-mode
// regeneration.
package watcher

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/mayer2014/appserver/internal/core/ports"
	"go.trai.ch/zerr"
)

const eventChannelBuffer = 100

// Watcher watches a fixed set of directories and reports write, create,
// remove and rename events on the files below them.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan string
}

// New creates a Watcher.
func New(logger ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file system watcher")
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		events:    make(chan string, eventChannelBuffer),
	}, nil
}

// Start begins watching the given directories and processes events until the
// context is done.
func (w *Watcher) Start(ctx context.Context, dirs []string) error {
	if err := w.Add(dirs); err != nil {
		return err
	}

	go w.processEvents(ctx)
	return nil
}

// Add extends the watch set with the given directories. Directories already
// being watched are kept as-is.
func (w *Watcher) Add(dirs []string) error {
	for _, dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns the channel of changed file paths. The channel is closed
// when the watcher stops.
func (w *Watcher) Events() <-chan string {
	return w.events
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	relevant := fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&relevant == 0 {
				continue
			}
			select {
			case w.events <- event.Name:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file system watcher error"))
		}
	}
}
