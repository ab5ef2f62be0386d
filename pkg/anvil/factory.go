package anvil

import "sync"

// NodeFactory instantiates nodes. Either method returns nil to let the next
// factory in the chain try.
type NodeFactory interface {
	// FromType creates a node of type t. root is the mount's root node, from
	// which factories can derive host context.
	FromType(root Node, t NodeType) Node
	// FromTemplate instantiates template id for insertion into parent.
	FromTemplate(parent Container, id int) Node
}

// TypeRegistry is a NodeFactory backed by constructors registered per node
// type and builders registered per template id. Every Engine ends its
// factory chain with one.
type TypeRegistry struct {
	mu        sync.RWMutex
	types     map[NodeType]func(root Node) Node
	templates map[int]func(parent Container) Node
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:     make(map[NodeType]func(root Node) Node),
		templates: make(map[int]func(parent Container) Node),
	}
}

// RegisterType sets the constructor for t, replacing any previous one.
func (r *TypeRegistry) RegisterType(t NodeType, ctor func(root Node) Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctor == nil {
		delete(r.types, t)
		return
	}
	r.types[t] = ctor
}

// RegisterTemplate sets the builder for template id, replacing any
// previous one.
func (r *TypeRegistry) RegisterTemplate(id int, build func(parent Container) Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if build == nil {
		delete(r.templates, id)
		return
	}
	r.templates[id] = build
}

// FromType implements NodeFactory.
func (r *TypeRegistry) FromType(root Node, t NodeType) Node {
	r.mu.RLock()
	ctor := r.types[t]
	r.mu.RUnlock()
	if ctor == nil {
		return nil
	}
	return ctor(root)
}

// FromTemplate implements NodeFactory.
func (r *TypeRegistry) FromTemplate(parent Container, id int) Node {
	r.mu.RLock()
	build := r.templates[id]
	r.mu.RUnlock()
	if build == nil {
		return nil
	}
	return build(parent)
}
