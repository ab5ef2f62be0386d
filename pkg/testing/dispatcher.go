package testing

import (
	"sync"
	"sync/atomic"
)

// ManualDispatcher is a uithread.Dispatcher that queues callbacks until
// Flush is called. Code running inside Flush or RunOnUI counts as the UI
// thread; everything else does not.
type ManualDispatcher struct {
	mu     sync.Mutex
	queue  []func()
	onUI   atomic.Int32
	posted atomic.Int64
}

// Post queues fn.
func (d *ManualDispatcher) Post(fn func()) {
	if fn == nil {
		return
	}
	d.posted.Add(1)
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()
}

// OnUIThread reports whether the caller is inside Flush or RunOnUI.
func (d *ManualDispatcher) OnUIThread() bool {
	return d.onUI.Load() > 0
}

// RunOnUI runs fn synchronously as if on the UI thread.
func (d *ManualDispatcher) RunOnUI(fn func()) {
	d.onUI.Add(1)
	defer d.onUI.Add(-1)
	fn()
}

// Pending returns the number of queued callbacks.
func (d *ManualDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Posted returns the total number of callbacks ever posted.
func (d *ManualDispatcher) Posted() int {
	return int(d.posted.Load())
}

// Flush runs queued callbacks, including ones they post, until the queue
// is empty. It returns the number of callbacks run.
func (d *ManualDispatcher) Flush() int {
	ran := 0
	d.RunOnUI(func() {
		for {
			d.mu.Lock()
			batch := d.queue
			d.queue = nil
			d.mu.Unlock()
			if len(batch) == 0 {
				return
			}
			for _, fn := range batch {
				fn()
				ran++
			}
		}
	})
	return ran
}
