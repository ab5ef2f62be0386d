package anvil

import (
	"sync"
	"sync/atomic"

	"github.com/go-anvil/anvil/pkg/uithread"
)

// scheduler coalesces render requests made off the UI thread. At most one
// posted render is live: posting a new one cancels the previous one if it
// has not started yet.
type scheduler struct {
	mu         sync.Mutex
	dispatcher uithread.Dispatcher
	pending    *pendingRender
}

type pendingRender struct {
	canceled atomic.Bool
}

// resolve returns the dispatcher, looking up the registered one on first
// use.
func (s *scheduler) resolve() uithread.Dispatcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dispatcher == nil {
		s.dispatcher = uithread.Registered()
		if s.dispatcher == nil {
			s.dispatcher = uithread.Immediate{}
		}
	}
	return s.dispatcher
}

func (s *scheduler) post(d uithread.Dispatcher, fn func()) {
	p := &pendingRender{}
	s.mu.Lock()
	if s.pending != nil {
		s.pending.canceled.Store(true)
	}
	s.pending = p
	s.mu.Unlock()

	d.Post(func() {
		if p.canceled.Load() {
			return
		}
		s.mu.Lock()
		if s.pending == p {
			s.pending = nil
		}
		s.mu.Unlock()
		fn()
	})
}
