package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownFunc is a function called during shutdown. Its context is
// cancelled when the shutdown timeout expires.
type ShutdownFunc func(ctx context.Context) error

// Lifecycle coordinates shutdown of long-running modes such as watch.
// It cancels a context on SIGINT or SIGTERM and then runs the
// registered shutdown functions.
type Lifecycle struct {
	mu            sync.Mutex
	shutdownFuncs []ShutdownFunc
	shutdownCh    chan struct{}
	timeout       time.Duration
	shutdownOnce  sync.Once
	signals       []os.Signal
}

// NewLifecycle creates a lifecycle manager with the given shutdown timeout.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	return &Lifecycle{
		shutdownCh: make(chan struct{}),
		timeout:    timeout,
		signals:    []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// OnShutdown registers a function to be called during shutdown.
// Functions run in reverse order of registration.
func (l *Lifecycle) OnShutdown(fn ShutdownFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shutdownFuncs = append(l.shutdownFuncs, fn)
}

// Context returns a child of parent that is cancelled on SIGINT,
// SIGTERM, or a call to Shutdown. The returned stop function releases
// the signal handler.
func (l *Lifecycle) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, l.signals...)
	go func() {
		select {
		case <-l.shutdownCh:
			stop()
		case <-ctx.Done():
		}
	}()
	return ctx, stop
}

// Shutdown runs the registered functions once, newest first, and
// returns the last error encountered.
func (l *Lifecycle) Shutdown() error {
	var lastErr error

	l.shutdownOnce.Do(func() {
		close(l.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		l.mu.Lock()
		funcs := make([]ShutdownFunc, len(l.shutdownFuncs))
		copy(funcs, l.shutdownFuncs)
		l.mu.Unlock()

		for i := len(funcs) - 1; i >= 0; i-- {
			if err := funcs[i](ctx); err != nil {
				lastErr = err
			}
		}
	})

	return lastErr
}
