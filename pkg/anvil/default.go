package anvil

// Default is the process-wide engine used by the package-level functions.
var Default = NewEngine(Options{})

// Mount binds r to root on the Default engine and renders it.
func Mount(root Node, r Renderable) error {
	return Default.Mount(root, r)
}

// Unmount removes the mount of root from the Default engine.
func Unmount(root Node, removeChildren bool) {
	Default.Unmount(root, removeChildren)
}

// Render re-renders every root mounted on the Default engine. It is safe to
// call from any goroutine.
func Render() error {
	return Default.Render()
}

// RenderNode re-renders the Default engine's mount rooted at root.
func RenderNode(root Node) error {
	return Default.RenderNode(root)
}

// RegisterAttributeSetter adds s to the front of the Default setter chain.
func RegisterAttributeSetter(s AttributeSetter) {
	Default.RegisterAttributeSetter(s)
}

// RegisterNodeFactory adds f to the front of the Default factory chain.
func RegisterNodeFactory(f NodeFactory) {
	Default.RegisterNodeFactory(f)
}

// RegisterType registers a constructor for t with the Default engine.
func RegisterType(t NodeType, ctor func(root Node) Node) {
	Default.Types().RegisterType(t, ctor)
}

// RegisterTemplate registers a template builder with the Default engine.
func RegisterTemplate(id int, build func(parent Container) Node) {
	Default.Types().RegisterTemplate(id, build)
}

// CurrentNode returns the node being declared by the Default engine's
// active render pass, or nil.
func CurrentNode() Node {
	return Default.CurrentNode()
}

// Sweep drops stale tag entries held by the Default engine.
func Sweep() int {
	return Default.Sweep()
}
