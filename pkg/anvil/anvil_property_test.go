//go:build property

package anvil_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/go-anvil/anvil/pkg/anvil"
	"github.com/go-anvil/anvil/pkg/memtree"
	atesting "github.com/go-anvil/anvil/pkg/testing"
)

var propertyTypes = []anvil.NodeType{
	memtree.TypeText,
	memtree.TypeButton,
	memtree.TypeImage,
	memtree.TypeGroup,
}

func typesOf(idx []int) []anvil.NodeType {
	out := make([]anvil.NodeType, len(idx))
	for i, n := range idx {
		out[i] = propertyTypes[n]
	}
	return out
}

func genTypeIndexes() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(propertyTypes)-1))
}

// TestReconcileProperties validates reconciliation against random child lists
func TestReconcileProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Property: the tree always mirrors the latest description
	properties.Property("children match the declared types", prop.ForAll(
		func(first, second []int) bool {
			tester := atesting.NewTester(t)
			root := memtree.NewGroup(memtree.TypeGroup)
			declared := typesOf(first)
			if err := tester.MountFunc(root, func(w *anvil.Walker) {
				for _, nt := range declared {
					w.Node(nt, nil)
				}
			}); err != nil {
				return false
			}
			declared = typesOf(second)
			if err := tester.Render(); err != nil {
				return false
			}
			if root.ChildCount() != len(declared) {
				return false
			}
			for i, nt := range declared {
				child := root.ChildAt(i)
				if child.NodeType() != nt || !tester.Engine.Owned(child) {
					return false
				}
			}
			return true
		},
		genTypeIndexes(),
		genTypeIndexes(),
	))

	// Property: a node survives exactly when its position keeps its type
	properties.Property("identity is kept where types match", prop.ForAll(
		func(first, second []int) bool {
			tester := atesting.NewTester(t)
			root := memtree.NewGroup(memtree.TypeGroup)
			declared := typesOf(first)
			if err := tester.MountFunc(root, func(w *anvil.Walker) {
				for _, nt := range declared {
					w.Node(nt, nil)
				}
			}); err != nil {
				return false
			}
			before := root.Children()
			declared = typesOf(second)
			if err := tester.Render(); err != nil {
				return false
			}
			for i := range min(len(first), len(second)) {
				same := root.ChildAt(i) == before[i]
				if same != (first[i] == second[i]) {
					return false
				}
			}
			return true
		},
		genTypeIndexes(),
		genTypeIndexes(),
	))

	// Property: rendering an unchanged description changes nothing
	properties.Property("second pass is a no-op", prop.ForAll(
		func(idx []int, labels []string) bool {
			tester := atesting.NewTester(t)
			root := memtree.NewGroup(memtree.TypeGroup)
			declared := typesOf(idx)
			if err := tester.MountFunc(root, func(w *anvil.Walker) {
				for i, nt := range declared {
					w.Node(nt, func() {
						if i < len(labels) {
							w.Attr("text", labels[i])
						}
						w.Attr("visible", i%2 == 0)
					})
				}
			}); err != nil {
				return false
			}
			before := root.Children()
			calls := len(tester.Setter.Calls())
			if err := tester.Render(); err != nil {
				return false
			}
			pass := tester.LastPass()
			if pass.Created != 0 || pass.Removed != 0 || pass.Applied != 0 {
				return false
			}
			if len(tester.Setter.Calls()) != calls {
				return false
			}
			for i, child := range root.Children() {
				if child != before[i] {
					return false
				}
			}
			return true
		},
		genTypeIndexes(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
