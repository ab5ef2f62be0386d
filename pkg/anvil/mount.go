package anvil

// mount binds a root node to the description rendered into it.
type mount struct {
	root       Node
	renderable Renderable
	walker     *Walker
	seq        uint64
	// locked is set while the mount is rendering. Nested requests for the
	// same mount are dropped.
	locked bool
}

func (e *Engine) newMount(root Node, r Renderable) *mount {
	e.seq++
	m := &mount{root: root, renderable: r, seq: e.seq}
	m.walker = &Walker{engine: e, mount: m}
	return m
}
