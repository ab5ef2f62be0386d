package anvil

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/go-anvil/anvil/pkg/errors"
)

// AttributeSetter applies one named attribute to a node. Set reports whether
// it claimed the attribute; the first setter in the chain that returns true
// wins. prev is the value recorded on the previous successful apply, or nil.
type AttributeSetter interface {
	Set(n Node, name string, value, prev any) bool
}

// AttributeSetterFunc adapts a function to the AttributeSetter interface.
// Function adapters cannot be compared, so registering the same function
// twice adds it twice.
type AttributeSetterFunc func(n Node, name string, value, prev any) bool

// Set calls f(n, name, value, prev).
func (f AttributeSetterFunc) Set(n Node, name string, value, prev any) bool {
	return f(n, name, value, prev)
}

// Setter returns an AttributeSetter that claims attribute name on nodes of
// type N and passes the value to apply as a V. A nil value is passed as the
// zero V. A value of any other type is reported as an
// [errors.AttributeTypeError] and the attribute is declined.
func Setter[N Node, V any](name string, apply func(n N, v V)) AttributeSetter {
	return &typedSetter[N, V]{name: name, apply: apply}
}

type typedSetter[N Node, V any] struct {
	name  string
	apply func(N, V)
}

func (s *typedSetter[N, V]) Set(n Node, name string, value, prev any) bool {
	if name != s.name {
		return false
	}
	node, ok := n.(N)
	if !ok {
		return false
	}
	v, ok := value.(V)
	if !ok && value != nil {
		reportAttributeType(n, name, reflect.TypeFor[V]().String(), value)
		return false
	}
	s.apply(node, v)
	return true
}

// MethodSetter applies attribute "name" by calling the node's exported
// method SetName with the value. It is the last setter in every chain.
type MethodSetter struct{}

// Set implements AttributeSetter.
func (MethodSetter) Set(n Node, name string, value, prev any) bool {
	method := reflect.ValueOf(n).MethodByName(setterName(name))
	if !method.IsValid() || method.Type().NumIn() != 1 {
		return false
	}
	in := method.Type().In(0)
	var arg reflect.Value
	switch {
	case value == nil:
		if !nillable(in) {
			reportAttributeType(n, name, in.String(), value)
			return false
		}
		arg = reflect.Zero(in)
	case reflect.TypeOf(value).AssignableTo(in):
		arg = reflect.ValueOf(value)
	default:
		reportAttributeType(n, name, in.String(), value)
		return false
	}
	method.Call([]reflect.Value{arg})
	return true
}

func setterName(attr string) string {
	r, size := utf8.DecodeRuneInString(attr)
	if r == utf8.RuneError {
		return "Set"
	}
	return "Set" + string(unicode.ToUpper(r)) + attr[size:]
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func reportAttributeType(n Node, name, want string, got any) {
	errors.Report(&errors.AnvilError{
		Op:   "anvil.Attr",
		Kind: errors.KindAttribute,
		Err: &errors.AttributeTypeError{
			Name: name,
			Node: fmt.Sprintf("%T", n),
			Want: want,
			Got:  got,
		},
	})
}

// chain is a copy-on-write list of strategies. Readers load a snapshot
// without locking; writers insert at the front under mu.
type chain[T any] struct {
	mu    sync.Mutex
	items atomic.Pointer[[]T]
}

func newChain[T any](items ...T) *chain[T] {
	c := &chain[T]{}
	snapshot := append([]T(nil), items...)
	c.items.Store(&snapshot)
	return c
}

func (c *chain[T]) load() []T {
	return *c.items.Load()
}

// prepend inserts item at the front unless it is already registered.
func (c *chain[T]) prepend(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.load()
	for _, existing := range current {
		if sameStrategy(existing, item) {
			return false
		}
	}
	next := make([]T, 0, len(current)+1)
	next = append(next, item)
	next = append(next, current...)
	c.items.Store(&next)
	return true
}
