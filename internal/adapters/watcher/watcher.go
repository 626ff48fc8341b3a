package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 200 * time.Millisecond

// skipDirectories are never watched and their events are dropped.
var skipDirectories = map[string]bool{
	".git":              true,
	".jj":               true,
	".hg":               true,
	"node_modules":      true,
	domain.StateDirName: true,
}

const batchChannelBuffer = 16

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	debouncer *Debouncer
	root      string

	batches  chan []ports.WatchEvent
	done     chan struct{}
	stopOnce sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewWatcher creates a new file system watcher that debounces events over window.
func NewWatcher(logger ports.Logger, window time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Join(domain.ErrExecution, zerr.Wrap(err, domain.ErrWatcherFailed.Error()))
	}
	w := &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		batches:   make(chan []ports.WatchEvent, batchChannelBuffer),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(window, w.emit)
	return w, nil
}

// Start begins watching root recursively. Events are processed until ctx is done or Stop
// is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.root = root

	for dir := range w.watchRecursively(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return errors.Join(domain.ErrExecution,
				zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", dir))
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and ends Batches.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsWatcher.Close()
		close(w.done)
		w.debouncer.Flush()

		w.mu.Lock()
		w.closed = true
		close(w.batches)
		w.mu.Unlock()
	})
	return err
}

// Batches yields debounced event batches until the watcher stops.
func (w *Watcher) Batches() iter.Seq[[]ports.WatchEvent] {
	return func(yield func([]ports.WatchEvent) bool) {
		for batch := range w.batches {
			if !yield(batch) {
				return
			}
		}
	}
}

func (w *Watcher) emit(batch []ports.WatchEvent) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.batches <- batch:
	case <-w.done:
	}
}

func (w *Watcher) watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Unreadable directories are not watched
			}
			if d.IsDir() {
				if path != root && skipDirectories[d.Name()] {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := w.convertEvent(event)
			if !ok {
				continue
			}
			w.debouncer.Add(watchEvent)

			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for dir := range w.watchRecursively(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: " + err.Error())
		}
	}
}

// convertEvent maps an fsnotify event to a root-relative WatchEvent. Events inside skipped
// directories and pure attribute changes are dropped.
func (w *Watcher) convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ports.WatchEvent{}, false
	}
	rel = filepath.ToSlash(rel)
	for segment := range strings.SplitSeq(rel, "/") {
		if skipDirectories[segment] {
			return ports.WatchEvent{}, false
		}
	}

	switch {
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: rel, Operation: ports.OpWrite}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: rel, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: rel, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: rel, Operation: ports.OpRename}, true
	}
	return ports.WatchEvent{}, false
}
