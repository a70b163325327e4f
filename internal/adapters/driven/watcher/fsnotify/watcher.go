// Package fsnotify provides a FileWatcher backed by github.com/fsnotify/fsnotify.
package fsnotify

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// DefaultDebounce is how long a path must stay quiet before its event is
// emitted. Copying a large file produces a burst of write events.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports file changes in a single directory. The underlying
// inotify handle is opened by Watch and released by Stop.
type Watcher struct {
	extensions map[string]struct{}
	debounce   time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// Option configures the watcher.
type Option func(*Watcher)

// WithExtensions restricts events to files with the given extensions.
// Without it every file is reported.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		for _, e := range exts {
			w.extensions[strings.ToLower(e)] = struct{}{}
		}
	}
}

// WithDebounce sets the quiet period per path. Zero disables debouncing.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a new file watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		extensions: make(map[string]struct{}),
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts monitoring dir and emits events until ctx is done.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan driven.FileEvent, error) {
	fw, err := w.open()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan driven.FileEvent, 100)

	go func() {
		var (
			mu      sync.Mutex
			pending = make(map[string]*time.Timer)
			wg      sync.WaitGroup
		)
		defer func() {
			mu.Lock()
			for _, t := range pending {
				if t.Stop() {
					wg.Done()
				}
			}
			mu.Unlock()
			wg.Wait()
			close(events)
		}()

		emit := func(ev driven.FileEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				ev, ok := w.translate(event)
				if !ok {
					continue
				}
				if w.debounce <= 0 {
					emit(ev)
					continue
				}

				mu.Lock()
				if t, exists := pending[ev.Path]; exists && t.Stop() {
					wg.Done()
				}
				wg.Add(1)
				pending[ev.Path] = time.AfterFunc(w.debounce, func() {
					defer wg.Done()
					mu.Lock()
					delete(pending, ev.Path)
					mu.Unlock()
					emit(ev)
				})
				mu.Unlock()
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher: %v", err)
			}
		}
	}()

	return events, nil
}

// Stop releases the underlying watcher. It is a no-op when Watch was never
// called or the watcher is already stopped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// Started reports whether an inotify handle is currently open.
func (w *Watcher) Started() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watcher != nil
}

func (w *Watcher) open() (*fsnotify.Watcher, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		w.watcher = fw
	}
	return w.watcher, nil
}

// translate maps an fsnotify event onto a FileEvent, dropping unwatched
// extensions and chmod/rename noise.
func (w *Watcher) translate(event fsnotify.Event) (driven.FileEvent, bool) {
	if !w.watched(event.Name) {
		return driven.FileEvent{}, false
	}

	var op driven.FileOperation
	switch {
	case event.Has(fsnotify.Create):
		op = driven.FileCreated
	case event.Has(fsnotify.Write):
		op = driven.FileModified
	case event.Has(fsnotify.Remove):
		op = driven.FileDeleted
	default:
		return driven.FileEvent{}, false
	}
	return driven.FileEvent{Path: event.Name, Operation: op}, true
}

func (w *Watcher) watched(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
