package anvil

import (
	"cmp"
	stderrors "errors"
	"log/slog"
	"slices"
	"time"

	"github.com/go-anvil/anvil/pkg/errors"
	"github.com/go-anvil/anvil/pkg/uithread"
)

// Options configures a new Engine.
type Options struct {
	// Dispatcher runs work on the UI thread. When nil, the dispatcher
	// registered with uithread.RegisterDispatcher is used, resolved on first
	// need; when that is nil too, every caller is treated as the UI thread.
	Dispatcher uithread.Dispatcher

	// Logger receives debug records about node creation, removal and
	// unclaimed attributes. Nil discards them.
	Logger *slog.Logger

	// Setters are placed ahead of the default MethodSetter, first entry
	// first.
	Setters []AttributeSetter

	// Factories are placed ahead of the engine's TypeRegistry, first entry
	// first.
	Factories []NodeFactory

	// AfterRender is called on the UI thread after every completed pass.
	AfterRender func(root Node, stats PassStats)
}

// Engine owns the mount registry, the tag store and the strategy chains.
// Apart from Render and the Register methods, Engine methods must be called
// on the UI thread.
type Engine struct {
	logger      *slog.Logger
	types       *TypeRegistry
	setters     *chain[AttributeSetter]
	factories   *chain[NodeFactory]
	afterRender func(Node, PassStats)

	mounts  map[Node]*mount
	tags    *tagStore
	current *mount
	seq     uint64

	sched scheduler
}

// NewEngine creates an engine with its own registry, tags and chains.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	types := NewTypeRegistry()

	setters := slices.Clone(opts.Setters)
	setters = append(setters, MethodSetter{})
	factories := slices.Clone(opts.Factories)
	factories = append(factories, types)

	return &Engine{
		logger:      logger,
		types:       types,
		setters:     newChain(setters...),
		factories:   newChain(factories...),
		afterRender: opts.AfterRender,
		mounts:      make(map[Node]*mount),
		tags:        newTagStore(),
		sched:       scheduler{dispatcher: opts.Dispatcher},
	}
}

// Types returns the registry at the end of the factory chain.
func (e *Engine) Types() *TypeRegistry {
	return e.types
}

// RegisterAttributeSetter puts s at the front of the setter chain unless it
// is already registered.
func (e *Engine) RegisterAttributeSetter(s AttributeSetter) {
	if s != nil {
		e.setters.prepend(s)
	}
}

// RegisterNodeFactory puts f at the front of the factory chain unless it is
// already registered.
func (e *Engine) RegisterNodeFactory(f NodeFactory) {
	if f != nil {
		e.factories.prepend(f)
	}
}

// Mount binds r to root, replacing any previous mount of root, and renders
// it. Off the UI thread the mount and its first pass are posted to the
// dispatcher and Mount returns nil immediately.
func (e *Engine) Mount(root Node, r Renderable) error {
	if d := e.sched.resolve(); !d.OnUIThread() {
		d.Post(func() {
			if err := e.Mount(root, r); err != nil {
				reportRender(err)
			}
		})
		return nil
	}
	m := e.newMount(root, r)
	e.mounts[root] = m
	return e.renderMount(m)
}

// Unmount removes the mount of root and of every mounted descendant. When
// removeChildren is set the children of root are detached as well, and the
// tags of root and of the removed subtrees are dropped. Otherwise every tag
// is kept until the node is removed or swept.
func (e *Engine) Unmount(root Node, removeChildren bool) {
	if _, ok := e.mounts[root]; !ok {
		return
	}
	delete(e.mounts, root)
	c, ok := root.(Container)
	if !ok {
		if removeChildren {
			e.tags.forget(root)
		}
		return
	}
	for i := range c.ChildCount() {
		e.unmountDescendants(c.ChildAt(i))
	}
	if !removeChildren {
		return
	}
	for i := c.ChildCount() - 1; i >= 0; i-- {
		child := c.ChildAt(i)
		c.RemoveChild(child)
		e.tags.forgetTree(child)
	}
	e.tags.forget(root)
}

func (e *Engine) unmountDescendants(n Node) {
	delete(e.mounts, n)
	if c, ok := n.(Container); ok {
		for i := range c.ChildCount() {
			e.unmountDescendants(c.ChildAt(i))
		}
	}
}

// Render re-renders every mounted root once. On the UI thread it renders
// synchronously and returns the joined pass errors. From any other
// goroutine it replaces any pending scheduled render with a new one and
// returns nil; errors of that pass go to the errors package handler.
func (e *Engine) Render() error {
	d := e.sched.resolve()
	if !d.OnUIThread() {
		e.sched.post(d, func() {
			if err := e.renderAll(); err != nil {
				reportRender(err)
			}
		})
		return nil
	}
	return e.renderAll()
}

// RenderNode re-renders the mount rooted at root. It is a no-op when root is
// not mounted. Off the UI thread the pass is posted and nil is returned.
func (e *Engine) RenderNode(root Node) error {
	if d := e.sched.resolve(); !d.OnUIThread() {
		d.Post(func() {
			if err := e.RenderNode(root); err != nil {
				reportRender(err)
			}
		})
		return nil
	}
	m, ok := e.mounts[root]
	if !ok {
		return nil
	}
	return e.renderMount(m)
}

// CurrentNode returns the node being declared by the active render pass, or
// nil outside of one.
func (e *Engine) CurrentNode() Node {
	if e.current == nil {
		return nil
	}
	return e.current.walker.Current()
}

// CurrentMount returns the root of the mount being rendered, or nil.
func (e *Engine) CurrentMount() Node {
	if e.current == nil {
		return nil
	}
	return e.current.root
}

// Mounted reports whether root has an active mount.
func (e *Engine) Mounted(root Node) bool {
	_, ok := e.mounts[root]
	return ok
}

// Mounts returns the mounted roots in mount order.
func (e *Engine) Mounts() []Node {
	ms := e.snapshot()
	roots := make([]Node, len(ms))
	for i, m := range ms {
		roots[i] = m.root
	}
	return roots
}

// Owned reports whether n was created by the engine and may be removed by it.
func (e *Engine) Owned(n Node) bool {
	return e.owned(n)
}

// SetTag stores value under key for n. Keys starting with "anvil." are
// reserved for the engine.
func (e *Engine) SetTag(n Node, key string, value any) {
	e.tags.set(n, key, value)
}

// Tag returns the value stored under key for n, or nil.
func (e *Engine) Tag(n Node, key string) any {
	v, _ := e.tags.get(n, key)
	return v
}

// Sweep drops tag entries of nodes that are no longer reachable from any
// mounted root and returns how many were dropped. Hosts that detach nodes
// behind the engine's back should call it periodically.
//
// Mounts nested in a subtree the engine removes end with it. A mount whose
// root the host detaches is still live for Sweep and keeps rendering until
// it is unmounted.
func (e *Engine) Sweep() int {
	live := make(map[Node]struct{})
	for root := range e.mounts {
		collect(root, live)
	}
	dropped := e.tags.retain(live)
	if dropped > 0 {
		e.logger.Debug("swept tag entries", "dropped", dropped, "kept", e.tags.len())
	}
	return dropped
}

func collect(n Node, live map[Node]struct{}) {
	if _, seen := live[n]; seen {
		return
	}
	live[n] = struct{}{}
	if c, ok := n.(Container); ok {
		for i := range c.ChildCount() {
			collect(c.ChildAt(i), live)
		}
	}
}

func (e *Engine) owned(n Node) bool {
	_, ok := e.tags.get(n, ownedTag)
	return ok
}

func (e *Engine) snapshot() []*mount {
	ms := make([]*mount, 0, len(e.mounts))
	for _, m := range e.mounts {
		ms = append(ms, m)
	}
	slices.SortFunc(ms, func(a, b *mount) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return ms
}

func (e *Engine) renderAll() error {
	var errs []error
	for _, m := range e.snapshot() {
		// A pass may have unmounted a later mount.
		if e.mounts[m.root] != m {
			continue
		}
		if err := e.renderMount(m); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// renderMount runs one pass. Structural and factory failures abort the pass
// and are returned; any other panic from the description is reported and
// re-raised after the mount state is restored.
func (e *Engine) renderMount(m *mount) (err error) {
	if m.locked {
		e.logger.Debug("dropped re-entrant render", "root", nodeName(m.root))
		return nil
	}
	m.locked = true
	prev := e.current
	e.current = m
	start := time.Now()

	defer func() {
		e.current = prev
		m.locked = false
		r := recover()
		if r == nil {
			return
		}
		m.walker.reset()
		if rerr := asRenderError(r); rerr != nil {
			err = rerr
			return
		}
		errors.ReportPanic(&errors.PanicError{
			Op:         "anvil.Render",
			Value:      r,
			StackTrace: errors.CaptureStack(),
		})
		panic(r)
	}()

	m.walker.start()
	if m.renderable != nil {
		m.renderable.View(m.walker)
	}
	if ferr := m.walker.finish(); ferr != nil {
		return &errors.AnvilError{Op: "anvil.Render", Kind: errors.KindStructural, Err: ferr}
	}

	stats := m.walker.stats
	stats.Duration = time.Since(start)
	e.logger.Debug("render pass",
		"root", nodeName(m.root),
		"created", stats.Created,
		"removed", stats.Removed,
		"applied", stats.Applied,
		"duration", stats.Duration)
	if e.afterRender != nil {
		e.afterRender(m.root, stats)
	}
	return nil
}

func asRenderError(r any) error {
	switch err := r.(type) {
	case *errors.StructuralError:
		return &errors.AnvilError{Op: "anvil.Render", Kind: errors.KindStructural, Err: err, StackTrace: errors.CaptureStack()}
	case *errors.FactoryError:
		return &errors.AnvilError{Op: "anvil.Render", Kind: errors.KindFactory, Err: err, StackTrace: errors.CaptureStack()}
	}
	return nil
}

func reportRender(err error) {
	errors.ReportError("anvil.Render", errors.KindRender, err)
}
