package anvil

import (
	"fmt"

	"github.com/go-anvil/anvil/pkg/errors"
)

// frame is one level of the traversal: a node and the index of its next
// undeclared child.
type frame struct {
	node  Node
	index int
}

// Walker reconciles one mount's declarative calls against its live tree.
// A Walker is only valid inside the Renderable.View call it was passed to.
type Walker struct {
	engine *Engine
	mount  *mount
	frames []frame
	stats  PassStats
}

// Begin declares a child of type t at the current position and makes it the
// current node. An existing child is reused when its type is exactly t;
// otherwise it is replaced by a node from the factory chain.
func (w *Walker) Begin(t NodeType) {
	w.begin(t, 0, false)
}

// BeginTemplate declares a child instantiated from template id. An existing
// child is reused only when it was created from the same template.
func (w *Walker) BeginTemplate(id int) {
	w.begin("", id, true)
}

// End closes the current node. Engine-owned children of a container that
// were not declared again during this pass are removed.
func (w *Walker) End() {
	if len(w.frames) < 2 {
		panic(&errors.StructuralError{Reason: "End called without a matching Begin"})
	}
	w.end()
}

// Node declares a child of type t, runs body with it as the current node,
// and closes it.
func (w *Walker) Node(t NodeType, body func()) {
	w.Begin(t)
	if body != nil {
		body()
	}
	w.End()
}

// Template declares a child from template id, runs body with it as the
// current node, and closes it.
func (w *Walker) Template(id int, body func()) {
	w.BeginTemplate(id)
	if body != nil {
		body()
	}
	w.End()
}

// Skip moves the cursor past the run of children the engine does not own,
// leaving them untouched. It stops at the next engine-owned child.
func (w *Walker) Skip() {
	top := w.top()
	parent, ok := top.node.(Container)
	if !ok {
		panic(&errors.StructuralError{Parent: nodeName(top.node), Child: "skipped children"})
	}
	for top.index < parent.ChildCount() && !w.engine.owned(parent.ChildAt(top.index)) {
		top.index++
	}
}

// Attr sets attribute name on the current node. Setters run only when value
// differs from the value recorded by the last successful apply.
func (w *Walker) Attr(name string, value any) {
	n := w.top().node
	tags := w.engine.tags
	prev, recorded := tags.get(n, name)
	if recorded && equalValues(prev, value) {
		return
	}
	for _, s := range w.engine.setters.load() {
		if s.Set(n, name, value, prev) {
			tags.set(n, name, value)
			w.stats.Applied++
			return
		}
	}
	w.stats.Unclaimed++
	w.engine.logger.Debug("attribute not claimed by any setter",
		"node", nodeName(n), "attr", name)
}

// Current returns the node the walker is positioned on.
func (w *Walker) Current() Node {
	if len(w.frames) == 0 {
		return nil
	}
	return w.frames[len(w.frames)-1].node
}

// Depth returns the number of open Begin calls.
func (w *Walker) Depth() int {
	return max(len(w.frames)-1, 0)
}

func (w *Walker) top() *frame {
	if len(w.frames) == 0 {
		panic(&errors.StructuralError{Reason: "walker used outside a render pass"})
	}
	return &w.frames[len(w.frames)-1]
}

func (w *Walker) begin(t NodeType, template int, fromTemplate bool) {
	top := w.top()
	parent, ok := top.node.(Container)
	if !ok {
		panic(&errors.StructuralError{
			Parent: nodeName(top.node),
			Child:  describeChild(t, template, fromTemplate),
		})
	}

	i := top.index
	var child Node
	if i < parent.ChildCount() {
		child = parent.ChildAt(i)
	}
	if !w.reusable(child, t, template, fromTemplate) {
		if child != nil {
			w.remove(parent, child)
		}
		child = w.create(parent, t, template, fromTemplate)
		parent.InsertChild(child, i)
	}

	top.index++
	w.frames = append(w.frames, frame{node: child})
}

func (w *Walker) reusable(child Node, t NodeType, template int, fromTemplate bool) bool {
	if child == nil {
		return false
	}
	if fromTemplate {
		id, ok := w.engine.tags.get(child, templateTag)
		return ok && id == template
	}
	return child.NodeType() == t
}

func (w *Walker) create(parent Container, t NodeType, template int, fromTemplate bool) Node {
	for _, f := range w.engine.factories.load() {
		var n Node
		if fromTemplate {
			n = f.FromTemplate(parent, template)
		} else {
			n = f.FromType(w.mount.root, t)
		}
		if isNil(n) {
			continue
		}
		w.engine.tags.set(n, ownedTag, true)
		if fromTemplate {
			w.engine.tags.set(n, templateTag, template)
		}
		w.stats.Created++
		w.engine.logger.Debug("node created",
			"node", nodeName(n), "parent", nodeName(parent))
		return n
	}
	panic(&errors.FactoryError{Child: describeChild(t, template, fromTemplate)})
}

// remove detaches child and ends every mount rooted in its subtree.
func (w *Walker) remove(parent Container, child Node) {
	parent.RemoveChild(child)
	w.engine.unmountDescendants(child)
	w.engine.tags.forgetTree(child)
	w.stats.Removed++
	w.engine.logger.Debug("node removed",
		"node", nodeName(child), "parent", nodeName(parent))
}

func (w *Walker) end() {
	f := w.frames[len(w.frames)-1]
	w.frames = w.frames[:len(w.frames)-1]
	w.prune(f)
}

// prune removes the engine-owned children of f.node at or after f.index.
// Template instances and roots of other mounts manage their own children.
func (w *Walker) prune(f frame) {
	c, ok := f.node.(Container)
	if !ok {
		return
	}
	if _, fromTemplate := w.engine.tags.get(c, templateTag); fromTemplate {
		return
	}
	if m, mounted := w.engine.mounts[c]; mounted && m != w.mount {
		return
	}
	for i := c.ChildCount() - 1; i >= f.index; i-- {
		child := c.ChildAt(i)
		if w.engine.owned(child) {
			w.remove(c, child)
		}
	}
}

func (w *Walker) start() {
	w.frames = append(w.frames[:0], frame{node: w.mount.root})
	w.stats = PassStats{}
}

// finish closes the root frame. Children left open by the description are
// closed too and reported as a structural error.
func (w *Walker) finish() error {
	open := len(w.frames) - 1
	for len(w.frames) > 0 {
		w.end()
	}
	if open > 0 {
		return &errors.StructuralError{
			Reason: fmt.Sprintf("%d Begin call(s) without a matching End", open),
		}
	}
	return nil
}

func (w *Walker) reset() {
	clear(w.frames)
	w.frames = w.frames[:0]
}
