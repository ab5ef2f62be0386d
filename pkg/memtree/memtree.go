// Package memtree is an in-memory retained node tree. It stands in for a
// real UI toolkit in tests, examples and the anvil command.
package memtree

import (
	"image/color"
	"slices"

	"github.com/go-anvil/anvil/pkg/anvil"
)

// Built-in node types.
const (
	TypeView   anvil.NodeType = "view"
	TypeText   anvil.NodeType = "text"
	TypeButton anvil.NodeType = "button"
	TypeImage  anvil.NodeType = "image"
	TypeGroup  anvil.NodeType = "group"
	TypeList   anvil.NodeType = "list"
)

// Element is implemented by every memtree node.
type Element interface {
	anvil.Node
	Base() *View
}

// View is a leaf node. Its exported setters double as attribute targets
// for anvil.MethodSetter.
type View struct {
	kind   anvil.NodeType
	parent *Group

	text       string
	visible    bool
	background color.Color
	onClick    func()
	props      map[string]any

	// ScrollOffset is node-local state the engine never touches.
	ScrollOffset int
}

// NewView creates a detached leaf of the given type.
func NewView(kind anvil.NodeType) *View {
	return &View{kind: kind, visible: true}
}

// NodeType implements anvil.Node.
func (v *View) NodeType() anvil.NodeType { return v.kind }

// Base returns v.
func (v *View) Base() *View { return v }

// Parent returns the containing group, or nil when detached.
func (v *View) Parent() *Group { return v.parent }

func (v *View) Text() string { return v.text }

func (v *View) SetText(s string) { v.text = s }

func (v *View) Visible() bool { return v.visible }

func (v *View) SetVisible(b bool) { v.visible = b }

func (v *View) OnClick() func() { return v.onClick }

func (v *View) SetOnClick(f func()) { v.onClick = f }

// Background returns the background color, or nil when unset.
func (v *View) Background() color.Color { return v.background }

// SetBackground sets the background color.
func (v *View) SetBackground(c color.Color) { v.background = c }

// Prop returns a free-form property.
func (v *View) Prop(name string) (any, bool) {
	p, ok := v.props[name]
	return p, ok
}

// SetProp stores a free-form property. A nil value deletes it.
func (v *View) SetProp(name string, value any) {
	if value == nil {
		delete(v.props, name)
		return
	}
	if v.props == nil {
		v.props = make(map[string]any)
	}
	v.props[name] = value
}

// Props returns a copy of the free-form properties.
func (v *View) Props() map[string]any {
	out := make(map[string]any, len(v.props))
	for k, p := range v.props {
		out[k] = p
	}
	return out
}

// Group is a container node.
type Group struct {
	View
	children []anvil.Node
}

// NewGroup creates a detached, empty container of the given type.
func NewGroup(kind anvil.NodeType) *Group {
	g := &Group{}
	g.kind = kind
	g.visible = true
	return g
}

// ChildCount implements anvil.Container.
func (g *Group) ChildCount() int { return len(g.children) }

// ChildAt implements anvil.Container.
func (g *Group) ChildAt(i int) anvil.Node { return g.children[i] }

// Children returns a copy of the child list.
func (g *Group) Children() []anvil.Node { return slices.Clone(g.children) }

// InsertChild implements anvil.Container. A child attached elsewhere is
// detached first. Indices past the end append.
func (g *Group) InsertChild(child anvil.Node, i int) {
	if e, ok := child.(Element); ok {
		if p := e.Base().parent; p != nil {
			p.RemoveChild(child)
		}
		e.Base().parent = g
	}
	i = min(max(i, 0), len(g.children))
	g.children = slices.Insert(g.children, i, child)
}

// AddChild appends child.
func (g *Group) AddChild(child anvil.Node) {
	g.InsertChild(child, len(g.children))
}

// RemoveChild implements anvil.Container.
func (g *Group) RemoveChild(child anvil.Node) {
	i := slices.Index(g.children, child)
	if i < 0 {
		return
	}
	g.children = slices.Delete(g.children, i, i+1)
	if e, ok := child.(Element); ok && e.Base().parent == g {
		e.Base().parent = nil
	}
}

// IndexOf returns the position of child, or -1.
func (g *Group) IndexOf(child anvil.Node) int {
	return slices.Index(g.children, child)
}
