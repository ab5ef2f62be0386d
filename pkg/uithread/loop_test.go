package uithread

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestLoopRunsCallbacksInOrder(t *testing.T) {
	loop := NewLoop()
	stop := loop.Start()
	defer stop()

	var got []int
	for i := range 5 {
		loop.Post(func() { got = append(got, i) })
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Call(ctx, func() {}); err != nil {
		t.Fatalf("Call: %v", err)
	}

	want := []int{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLoopPostFromManyGoroutines(t *testing.T) {
	loop := NewLoop()
	stop := loop.Start()
	defer stop()

	const n = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			loop.Post(func() {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Call(ctx, func() {}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if count != n {
		t.Errorf("ran %d callbacks, want %d", count, n)
	}
}

func TestLoopOnUIThread(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("thread ids are only available on linux")
	}
	loop := NewLoop()
	stop := loop.Start()
	defer stop()

	if loop.OnUIThread() {
		t.Error("test goroutine should not be the UI thread")
	}

	var inside bool
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Call(ctx, func() { inside = loop.OnUIThread() }); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !inside {
		t.Error("callback should run on the UI thread")
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	loop := NewLoop()
	stop := loop.Start()
	defer stop()

	loop.Post(func() { panic("boom") })

	ran := false
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Call(ctx, func() { ran = true }); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !ran {
		t.Error("loop should keep running after a panicking callback")
	}
}

func TestLoopRunTwice(t *testing.T) {
	loop := NewLoop()
	stop := loop.Start()
	defer stop()

	// Wait until the first Run has claimed the loop.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Call(ctx, func() {}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if err := loop.Run(context.Background()); err != errAlreadyRunning {
		t.Errorf("second Run = %v, want %v", err, errAlreadyRunning)
	}
}

func TestDispatch(t *testing.T) {
	RegisterDispatcher(nil)
	if Dispatch(func() {}) {
		t.Error("Dispatch without a dispatcher should report false")
	}

	RegisterDispatcher(Immediate{})
	t.Cleanup(func() { RegisterDispatcher(nil) })

	ran := false
	if !Dispatch(func() { ran = true }) {
		t.Fatal("Dispatch should report true")
	}
	if !ran {
		t.Error("Immediate should run the callback synchronously")
	}
	if Dispatch(nil) {
		t.Error("Dispatch(nil) should report false")
	}
}
