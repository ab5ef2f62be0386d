package anvil

import "testing"

type point struct{ X, Y int }

type boxed struct{ V any }

type approx float64

func (a approx) Equal(other any) bool {
	b, ok := other.(approx)
	if !ok {
		return false
	}
	d := float64(a - b)
	return d < 0.01 && d > -0.01
}

func TestEqualValues(t *testing.T) {
	shared := &point{1, 2}
	fn := func() {}
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"value and nil", "", nil, false},
		{"equal strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"different types", int32(1), int64(1), false},
		{"equal structs", point{1, 2}, point{1, 2}, true},
		{"same pointer", shared, shared, true},
		{"distinct pointers", &point{1, 2}, &point{1, 2}, false},
		{"equal slices", []int{1, 2}, []int{1, 2}, true},
		{"different slices", []int{1, 2}, []int{2, 1}, false},
		{"equal maps", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{"functions never equal", fn, fn, false},
		{"uncomparable interface field", boxed{[]int{1}}, boxed{[]int{1}}, true},
		{"equaler", approx(1.0), approx(1.001), true},
		{"equaler rejects", approx(1.0), approx(2.0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := equalValues(tt.a, tt.b); got != tt.want {
				t.Errorf("equalValues(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameStrategy(t *testing.T) {
	a := &typedSetter[*testNode, string]{name: "a"}
	b := &typedSetter[*testNode, string]{name: "a"}
	fn := AttributeSetterFunc(func(Node, string, any, any) bool { return false })

	if !sameStrategy(a, a) {
		t.Error("a strategy should match itself")
	}
	if sameStrategy(a, b) {
		t.Error("distinct pointers should not match")
	}
	if !sameStrategy(MethodSetter{}, MethodSetter{}) {
		t.Error("equal comparable values should match")
	}
	if sameStrategy(fn, fn) {
		t.Error("function adapters have no identity")
	}
}

func TestChainPrepend(t *testing.T) {
	first := &typedSetter[*testNode, string]{name: "first"}
	second := &typedSetter[*testNode, string]{name: "second"}
	c := newChain[AttributeSetter](MethodSetter{})

	if !c.prepend(first) {
		t.Fatal("first prepend should insert")
	}
	if !c.prepend(second) {
		t.Fatal("second prepend should insert")
	}
	if c.prepend(first) {
		t.Error("duplicate prepend should be ignored")
	}

	got := c.load()
	if len(got) != 3 || got[0] != AttributeSetter(second) || got[1] != AttributeSetter(first) {
		t.Errorf("chain = %v, want [second first MethodSetter]", got)
	}

	snapshot := c.load()
	c.prepend(AttributeSetterFunc(func(Node, string, any, any) bool { return false }))
	if len(snapshot) != 3 {
		t.Error("prepend must not mutate loaded snapshots")
	}
}

func TestIsNil(t *testing.T) {
	var typed *testNode
	if !isNil(nil) || !isNil(typed) {
		t.Error("nil and typed nil pointers should be nil")
	}
	if isNil(&testNode{}) {
		t.Error("non-nil pointer reported as nil")
	}
}
