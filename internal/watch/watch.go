// Package watch re-applies the configuration file whenever it changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/kombatant/nvidia-oc/internal/constants"
	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/logging"
)

// ApplyFunc applies the configuration file once.
type ApplyFunc func(ctx context.Context) error

// Watcher applies a file, then re-applies it after every debounced
// change. Applies always run on the goroutine that called Run.
type Watcher struct {
	path     string
	apply    ApplyFunc
	debounce time.Duration
	limiter  *rate.Limiter
	logger   logging.Logger
	ready    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a re-apply.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithMinInterval sets the shortest time between two re-applies. Zero
// disables the limit.
func WithMinInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a Watcher for path.
func New(path string, apply ApplyFunc, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		apply:    apply,
		debounce: constants.WatchDebounce,
		limiter:  rate.NewLimiter(rate.Every(constants.WatchMinInterval), 1),
		logger:   logging.NewNop(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once the file system watch is in place.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run applies the file and then watches its directory until ctx is
// done. A failing first apply is returned; later failures are logged
// and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.apply(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.Unknown, "failed to create file watcher", err).WithOp("watch.Run")
	}
	defer watcher.Close()

	// The directory is watched so editors that replace the file keep working.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(errors.NotFound, err, "failed to watch %s", dir).WithOp("watch.Run")
	}

	w.logger.Info("watching configuration file for changes", "file", w.path)
	close(w.ready)

	fire := make(chan struct{}, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("configuration file changed", "op", event.Op)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.logger.Info("re-applying configuration after file change")
			if err := w.apply(ctx); err != nil {
				w.logger.Error("re-apply failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}
