// Package uithread provides the UI-affinity dispatch mechanism used by the
// Anvil scheduler.
//
// Exactly one goroutine, pinned to an OS thread, owns the node tree. Work
// reaches it through a [Dispatcher]. Hosts that already own a UI thread
// register their own dispatcher with [RegisterDispatcher]; everyone else can
// run a [Loop].
package uithread

import "sync"

// Dispatcher schedules callbacks on the UI thread.
type Dispatcher interface {
	// Post schedules fn to run on the UI thread. It never blocks on fn and is
	// safe to call from any goroutine.
	Post(fn func())
	// OnUIThread reports whether the caller is running on the UI thread.
	OnUIThread() bool
}

var (
	dispatchMu sync.RWMutex
	dispatcher Dispatcher
)

// RegisterDispatcher sets the process-wide dispatcher.
// This should be called once by the host during initialization.
func RegisterDispatcher(d Dispatcher) {
	dispatchMu.Lock()
	dispatcher = d
	dispatchMu.Unlock()
}

// Registered returns the process-wide dispatcher, or nil.
func Registered() Dispatcher {
	dispatchMu.RLock()
	defer dispatchMu.RUnlock()
	return dispatcher
}

// Dispatch schedules a callback on the registered dispatcher.
// Returns true if the callback was successfully scheduled, false if no
// dispatcher is registered or the callback is nil.
func Dispatch(callback func()) bool {
	d := Registered()
	if d == nil || callback == nil {
		return false
	}
	d.Post(callback)
	return true
}

// Immediate is a Dispatcher that treats every caller as the UI thread and
// runs posted callbacks synchronously. It suits tests and single-goroutine
// command line tools.
type Immediate struct{}

// Post runs fn on the calling goroutine.
func (Immediate) Post(fn func()) {
	if fn != nil {
		fn()
	}
}

// OnUIThread always reports true.
func (Immediate) OnUIThread() bool { return true }
