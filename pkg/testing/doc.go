// Package testing provides helpers for testing Anvil descriptions.
//
// # Quick Start
//
// Create a tester, mount a description on a memtree root, and compare
// snapshots:
//
//	func TestCounter(t *testing.T) {
//	    tester := atesting.NewTester(t)
//	    root := memtree.NewGroup(memtree.TypeGroup)
//	    tester.MountFunc(root, func(w *anvil.Walker) {
//	        w.Node(memtree.TypeText, func() { w.Attr("text", "0") })
//	    })
//
//	    want := atesting.Foreign(memtree.TypeGroup,
//	        atesting.Owned(memtree.TypeText).WithText("0"))
//	    if diff := cmp.Diff(want, tester.Snapshot(root)); diff != "" {
//	        t.Errorf("tree mismatch (-want +got):\n%s", diff)
//	    }
//	}
//
// # Scheduling
//
// The tester's ManualDispatcher holds render requests made off the UI
// thread until Pump is called, which makes coalescing observable.
package testing
