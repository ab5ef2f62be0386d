package testing

import (
	"sync"
	"testing"

	"github.com/go-anvil/anvil/pkg/anvil"
	"github.com/go-anvil/anvil/pkg/errors"
	"github.com/go-anvil/anvil/pkg/memtree"
)

// Tester wires an isolated engine to a memtree host with a manual
// dispatcher and recording strategies.
//
//	tester := atesting.NewTester(t)
//	root := memtree.NewGroup(memtree.TypeGroup)
//	tester.Mount(root, description)
//	tester.Render()
type Tester struct {
	t          testing.TB
	Engine     *anvil.Engine
	Dispatcher *ManualDispatcher
	Factory    *RecordingFactory
	Setter     *RecordingSetter

	mu     sync.Mutex
	errs   []*errors.AnvilError
	passes []anvil.PassStats
}

// NewTester creates a tester and installs an error handler that records
// reported errors for the duration of the test.
func NewTester(t testing.TB) *Tester {
	tester := &Tester{t: t, Dispatcher: &ManualDispatcher{}}
	tester.Setter = NewRecordingSetter(setterList(memtree.Setters()))

	tester.Engine = anvil.NewEngine(anvil.Options{
		Dispatcher: tester.Dispatcher,
		Setters:    []anvil.AttributeSetter{tester.Setter},
		AfterRender: func(root anvil.Node, stats anvil.PassStats) {
			tester.mu.Lock()
			tester.passes = append(tester.passes, stats)
			tester.mu.Unlock()
		},
	})
	memtree.Register(tester.Engine.Types())
	tester.Factory = NewRecordingFactory(tester.Engine.Types())
	tester.Engine.RegisterNodeFactory(tester.Factory)

	prev := errors.SetHandler(errorRecorder{tester})
	t.Cleanup(func() { errors.SetHandler(prev) })
	return tester
}

// Mount mounts r on root from the UI thread.
func (tt *Tester) Mount(root anvil.Node, r anvil.Renderable) error {
	var err error
	tt.Dispatcher.RunOnUI(func() { err = tt.Engine.Mount(root, r) })
	return err
}

// MountFunc is Mount for a plain function.
func (tt *Tester) MountFunc(root anvil.Node, view func(w *anvil.Walker)) error {
	return tt.Mount(root, anvil.RenderableFunc(view))
}

// Render renders all mounts from the UI thread.
func (tt *Tester) Render() error {
	var err error
	tt.Dispatcher.RunOnUI(func() { err = tt.Engine.Render() })
	return err
}

// MustRender renders all mounts and fails the test on error.
func (tt *Tester) MustRender() {
	tt.t.Helper()
	if err := tt.Render(); err != nil {
		tt.t.Fatalf("render: %v", err)
	}
}

// Unmount unmounts root from the UI thread.
func (tt *Tester) Unmount(root anvil.Node, removeChildren bool) {
	tt.Dispatcher.RunOnUI(func() { tt.Engine.Unmount(root, removeChildren) })
}

// Pump runs every callback posted to the dispatcher.
func (tt *Tester) Pump() int {
	return tt.Dispatcher.Flush()
}

// Snapshot captures the tree rooted at root.
func (tt *Tester) Snapshot(root anvil.Node) Tree {
	return Snapshot(tt.Engine, root)
}

// Passes returns the stats of every completed render pass.
func (tt *Tester) Passes() []anvil.PassStats {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return append([]anvil.PassStats(nil), tt.passes...)
}

// LastPass returns the stats of the most recent pass.
func (tt *Tester) LastPass() anvil.PassStats {
	tt.t.Helper()
	passes := tt.Passes()
	if len(passes) == 0 {
		tt.t.Fatal("no render pass completed")
	}
	return passes[len(passes)-1]
}

// Errors returns the errors reported to the global handler.
func (tt *Tester) Errors() []*errors.AnvilError {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return append([]*errors.AnvilError(nil), tt.errs...)
}

type errorRecorder struct {
	tt *Tester
}

func (r errorRecorder) HandleError(err *errors.AnvilError) {
	r.tt.mu.Lock()
	r.tt.errs = append(r.tt.errs, err)
	r.tt.mu.Unlock()
}

func (r errorRecorder) HandlePanic(*errors.PanicError) {}

// setterList applies the first claiming setter.
type setterList []anvil.AttributeSetter

func (l setterList) Set(n anvil.Node, name string, value, prev any) bool {
	for _, s := range l {
		if s.Set(n, name, value, prev) {
			return true
		}
	}
	return false
}
