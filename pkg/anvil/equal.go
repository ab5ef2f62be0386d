package anvil

import "reflect"

// Equaler lets attribute values define their own change detection.
type Equaler interface {
	Equal(other any) bool
}

// equalValues reports whether an attribute value is unchanged. Comparable
// values use ==, which makes pointers compare by identity. Functions never
// compare equal, so callbacks are reapplied on every pass.
func equalValues(a, b any) (equal bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) {
		return false
	}
	if t.Kind() == reflect.Func {
		return false
	}
	if t.Comparable() {
		// Structs holding interfaces can still panic on ==.
		defer func() {
			if recover() != nil {
				equal = reflect.DeepEqual(a, b)
			}
		}()
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// sameStrategy reports whether two registered strategies are the same value.
// Function adapters have no identity and are never considered the same.
func sameStrategy(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb || ta.Kind() == reflect.Func || !ta.Comparable() {
		return false
	}
	defer func() { _ = recover() }()
	return a == b
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
