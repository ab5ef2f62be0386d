package uithread

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/go-anvil/anvil/pkg/errors"
)

// Loop is a Dispatcher backed by a single goroutine locked to its OS thread.
// Callbacks run in posting order. The zero value is not usable; create one
// with NewLoop.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	tid     atomic.Int64
	running atomic.Bool
}

// NewLoop creates an idle loop. Call Run or Start to begin processing.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post appends fn to the queue. Safe to call from any goroutine, including
// the loop itself.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// OnUIThread reports whether the caller runs on the loop's OS thread. On
// platforms without thread ids it always reports false, so callers fall
// back to posting.
func (l *Loop) OnUIThread() bool {
	tid := l.tid.Load()
	return tid != 0 && l.running.Load() && threadID() == tid
}

// Run processes callbacks on the calling goroutine until ctx is done. The
// goroutine is locked to its OS thread for the duration.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	l.tid.Store(threadID())
	defer func() {
		l.tid.Store(0)
		l.running.Store(false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			for _, fn := range l.drain() {
				l.run(fn)
			}
		}
	}
}

// Start runs the loop on a new goroutine and returns a function that stops
// it and waits for it to exit.
func (l *Loop) Start() (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// Call posts fn and waits until it has run, or until ctx is done.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if l.OnUIThread() {
		fn()
		return nil
	}
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	callbacks := l.queue
	l.queue = nil
	return callbacks
}

func (l *Loop) run(fn func()) {
	defer errors.Recover("uithread.Loop")
	fn()
}
