package testing

import (
	"sync"

	"github.com/go-anvil/anvil/pkg/anvil"
)

// RecordingFactory wraps a NodeFactory and records every node it returns.
type RecordingFactory struct {
	Inner anvil.NodeFactory

	mu      sync.Mutex
	created []anvil.Node
}

// NewRecordingFactory wraps inner.
func NewRecordingFactory(inner anvil.NodeFactory) *RecordingFactory {
	return &RecordingFactory{Inner: inner}
}

// FromType implements anvil.NodeFactory.
func (f *RecordingFactory) FromType(root anvil.Node, t anvil.NodeType) anvil.Node {
	return f.record(f.Inner.FromType(root, t))
}

// FromTemplate implements anvil.NodeFactory.
func (f *RecordingFactory) FromTemplate(parent anvil.Container, id int) anvil.Node {
	return f.record(f.Inner.FromTemplate(parent, id))
}

func (f *RecordingFactory) record(n anvil.Node) anvil.Node {
	if n != nil {
		f.mu.Lock()
		f.created = append(f.created, n)
		f.mu.Unlock()
	}
	return n
}

// Created returns the nodes created so far.
func (f *RecordingFactory) Created() []anvil.Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]anvil.Node(nil), f.created...)
}

// Reset forgets recorded nodes.
func (f *RecordingFactory) Reset() {
	f.mu.Lock()
	f.created = nil
	f.mu.Unlock()
}

// SetterCall is one invocation seen by a RecordingSetter.
type SetterCall struct {
	Node    anvil.Node
	Name    string
	Value   any
	Prev    any
	Claimed bool
}

// RecordingSetter wraps an AttributeSetter and records every call. With a
// nil Inner it declines everything.
type RecordingSetter struct {
	Inner anvil.AttributeSetter

	mu    sync.Mutex
	calls []SetterCall
}

// NewRecordingSetter wraps inner.
func NewRecordingSetter(inner anvil.AttributeSetter) *RecordingSetter {
	return &RecordingSetter{Inner: inner}
}

// Set implements anvil.AttributeSetter.
func (s *RecordingSetter) Set(n anvil.Node, name string, value, prev any) bool {
	claimed := s.Inner != nil && s.Inner.Set(n, name, value, prev)
	s.mu.Lock()
	s.calls = append(s.calls, SetterCall{Node: n, Name: name, Value: value, Prev: prev, Claimed: claimed})
	s.mu.Unlock()
	return claimed
}

// Calls returns the recorded calls.
func (s *RecordingSetter) Calls() []SetterCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SetterCall(nil), s.calls...)
}

// Count returns how many calls were made for attribute name.
func (s *RecordingSetter) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls.
func (s *RecordingSetter) Reset() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}
