// Package watcher implements the recursive fsnotify notification source.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/lull/internal/pathmatch"
	"go.trai.ch/zerr"
)

var _ ports.EventSource = (*Watcher)(nil)

// DefaultBufferSize is the fsnotify event buffer size.
const DefaultBufferSize = 4096

const eventChannelBuffer = 256

// item is one element of the Events iterator.
type item struct {
	event domain.RawEvent
	err   error
}

// Watcher implements ports.EventSource using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	ignore    []string
	matcher   *pathmatch.Matcher
	events    chan item
	stopOnce  sync.Once
	stopErr   error
}

// NewWatcher creates a watcher that skips paths matching the ignore globs.
func NewWatcher(ignore []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewBufferedWatcher(DefaultBufferSize)
	if err != nil {
		return nil, errors.Join(domain.ErrWatchFailed, err)
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		ignore:    ignore,
		events:    make(chan item, eventChannelBuffer),
	}, nil
}

// Start begins watching root recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Join(domain.ErrInvalidRootPath, zerr.With(err, "root", root))
	}
	if !info.IsDir() {
		return zerr.With(zerr.Wrap(domain.ErrInvalidRootPath, "not a directory"), "root", root)
	}

	matcher, err := pathmatch.New(root, w.ignore)
	if err != nil {
		return err
	}
	w.matcher = matcher

	for dir := range w.watchRecursively(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return errors.Join(domain.ErrWatchFailed, zerr.With(err, "dir", dir))
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.stopErr = w.fsWatcher.Close()
	})
	return w.stopErr
}

// Events returns an iterator of raw events and source errors.
// It ends once the watcher is stopped or its context is done.
func (w *Watcher) Events() iter.Seq2[domain.RawEvent, error] {
	return func(yield func(domain.RawEvent, error) bool) {
		for it := range w.events {
			if !yield(it.event, it.err) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields every directory that is not ignored.
func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable directories are skipped, the rest of the tree is still watched.
				return nil //nolint:nilerr // skipping is intended
			}
			if !d.IsDir() {
				return nil
			}
			if w.matcher.Match(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// processEvents converts fsnotify events until the watcher closes or ctx is done.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.matcher.Match(event.Name) {
				continue
			}

			raw, ok := convertEvent(event)
			if !ok {
				continue
			}

			if !w.send(ctx, item{event: raw}) {
				return
			}

			if raw.Op == domain.RawCreate {
				w.watchCreated(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				err = errors.Join(domain.ErrSourceOverflow, err)
			}
			if !w.send(ctx, item{err: err}) {
				return
			}
		}
	}
}

func (w *Watcher) send(ctx context.Context, it item) bool {
	select {
	case w.events <- it:
		return true
	case <-ctx.Done():
		return false
	}
}

// watchCreated adds a newly created directory and its subdirectories.
func (w *Watcher) watchCreated(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for dir := range w.watchRecursively(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

// convertEvent maps an fsnotify event to a raw event. Chmod-only events are dropped.
// fsnotify reports a rename on the old name, so it becomes the origin half of a rename.
func convertEvent(event fsnotify.Event) (domain.RawEvent, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return domain.RawEvent{Op: domain.RawCreate, Path: event.Name}, true
	case event.Has(fsnotify.Write):
		return domain.RawEvent{Op: domain.RawWrite, Path: event.Name}, true
	case event.Has(fsnotify.Remove):
		return domain.RawEvent{Op: domain.RawRemove, Path: event.Name}, true
	case event.Has(fsnotify.Rename):
		return domain.RawEvent{Op: domain.RawRenameFrom, Path: event.Name}, true
	default:
		return domain.RawEvent{}, false
	}
}
