package testing

import (
	"github.com/go-anvil/anvil/pkg/anvil"
)

// Tree is a comparable snapshot of a node tree, suitable for cmp.Diff.
type Tree struct {
	Type     anvil.NodeType
	Owned    bool
	Text     string
	Children []Tree
}

// Snapshot captures the tree rooted at root. Ownership is read from e.
func Snapshot(e *anvil.Engine, root anvil.Node) Tree {
	t := Tree{Type: root.NodeType(), Owned: e.Owned(root)}
	if texter, ok := root.(interface{ Text() string }); ok {
		t.Text = texter.Text()
	}
	if c, ok := root.(anvil.Container); ok {
		for i := range c.ChildCount() {
			t.Children = append(t.Children, Snapshot(e, c.ChildAt(i)))
		}
	}
	return t
}

// Owned returns a leaf snapshot of an engine-owned node of type t.
func Owned(t anvil.NodeType, children ...Tree) Tree {
	return Tree{Type: t, Owned: true, Children: children}
}

// Foreign returns a leaf snapshot of a node the engine does not own.
func Foreign(t anvil.NodeType, children ...Tree) Tree {
	return Tree{Type: t, Children: children}
}

// WithText returns a copy of t with Text set.
func (t Tree) WithText(s string) Tree {
	t.Text = s
	return t
}
