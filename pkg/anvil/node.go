package anvil

import "fmt"

// NodeType identifies a concrete kind of node. Two nodes are interchangeable
// for reuse only when their types are equal.
type NodeType string

// Node is a unit of the retained tree. Implementations must be comparable,
// normally pointer types, since the engine keys its side tables by node
// identity.
type Node interface {
	NodeType() NodeType
}

// Container is a node that holds an ordered list of children.
type Container interface {
	Node
	ChildCount() int
	ChildAt(i int) Node
	// InsertChild inserts child at index i, shifting later children.
	InsertChild(child Node, i int)
	// RemoveChild detaches child if it is present.
	RemoveChild(child Node)
}

// Renderable is a declarative description of a mounted node's content.
// View is called once per render pass on the UI thread.
type Renderable interface {
	View(w *Walker)
}

// RenderableFunc adapts a function to the Renderable interface.
type RenderableFunc func(w *Walker)

// View calls f(w).
func (f RenderableFunc) View(w *Walker) {
	f(w)
}

func describeChild(t NodeType, template int, fromTemplate bool) string {
	if fromTemplate {
		return fmt.Sprintf("template %d", template)
	}
	return fmt.Sprintf("type %q", string(t))
}

func nodeName(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T(%s)", n, n.NodeType())
}
