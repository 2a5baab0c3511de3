package apps

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a manifest when its file changes.
//
// The parent directory is watched rather than the file itself, so editors
// that save by renaming a temporary file over the original are still seen.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce *debouncer
	logger   *log.Logger
	onChange func(*Manifest, error)
	done     chan struct{}
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = newDebouncer(d) }
}

// WithWatchLogger sets the logger used for reload events.
func WithWatchLogger(l *log.Logger) WatchOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher starts watching path. onChange is called from the watcher's
// goroutine with the reloaded manifest, or with the load error. Invalid
// edits are reported and the caller keeps its previous manifest.
func NewWatcher(path string, onChange func(*Manifest, error), opts ...WatchOption) (*Watcher, error) {
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsw:      fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce == nil {
		w.debounce = newDebouncer(DefaultDebounce)
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run delivers reloads until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debounce.cancel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("manifest event", "op", ev.Op.String(), "path", ev.Name)
			w.debounce.trigger(w.reload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) reload() {
	m, err := Load(w.path)
	if err != nil {
		w.logger.Warn("manifest reload failed", "path", w.path, "err", err)
	} else {
		w.logger.Info("manifest reloaded", "apps", len(m.Apps))
	}
	w.onChange(m, err)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
		close(w.done)
	}
	w.debounce.cancel()
	return w.fsw.Close()
}
