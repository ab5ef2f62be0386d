// Package anvil drives a retained-mode node tree from a declarative
// description that is re-run on every render pass.
//
// A [Renderable] describes the children and attributes of a root node by
// calling into a [Walker]. On each pass the walker diffs those calls against
// the live tree: children of a matching type are reused, mismatched ones are
// replaced, trailing children that were not declared again are removed, and
// attribute setters only run when a value actually changed.
//
// # Mounting
//
//	root := memtree.NewGroup(memtree.TypeGroup)
//	anvil.Mount(root, anvil.RenderableFunc(func(w *anvil.Walker) {
//	    w.Node(memtree.TypeText, func() {
//	        w.Attr("text", "Hello")
//	    })
//	}))
//
// Later calls to [Render] re-run every mounted description. Render is safe to
// call from any goroutine: off the UI thread it coalesces bursts of requests
// into a single pass posted to the registered [uithread.Dispatcher].
//
// # Extension points
//
// Nodes are created by a chain of [NodeFactory] values and attributes are
// applied by a chain of [AttributeSetter] values. Both chains are consulted
// most-recently-registered first, so host specific strategies registered with
// [RegisterNodeFactory] and [RegisterAttributeSetter] override the defaults.
//
// # Errors
//
// Declaring a child under a node that is not a [Container], or requesting a
// node no factory can build, aborts the pass. The render call returns an
// [errors.AnvilError] wrapping the [errors.StructuralError] or
// [errors.FactoryError]. Attributes that no setter claims are ignored and
// retried on the next pass.
package anvil
