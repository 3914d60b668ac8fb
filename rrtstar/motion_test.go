package rrtstar

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/rrtplanner/objective"
	"go.viam.com/rrtplanner/spatial"
)

func TestRemoveFromParentDetachesSingleChild(t *testing.T) {
	root := newMotion(spatial.State{0, 0})
	child := newMotion(spatial.State{1, 0})
	other := newMotion(spatial.State{2, 0})
	child.parent = root
	other.parent = root
	root.children = []*Motion{child, other}

	removeFromParent(child)
	test.That(t, len(root.children), test.ShouldEqual, 1)
	test.That(t, root.children[0], test.ShouldEqual, other)

	// Removing a root is a no-op, not a panic.
	removeFromParent(root)
}

func TestUpdateChildCostsPropagatesThroughSubtree(t *testing.T) {
	obj := objective.NewPathLength(nil, 0)
	root := newMotion(spatial.State{0, 0})
	root.cost = 0

	a := newMotion(spatial.State{1, 0})
	a.parent = root
	a.incCost = 1
	a.cost = 1
	root.children = []*Motion{a}

	b := newMotion(spatial.State{2, 0})
	b.parent = a
	b.incCost = 1
	b.cost = 2
	a.children = []*Motion{b}

	// Reparent root's incCost contribution changes (simulating a rewire upstream).
	root.cost = 5
	updateChildCosts(root, obj)

	test.That(t, float64(a.cost), test.ShouldAlmostEqual, 6)
	test.That(t, float64(b.cost), test.ShouldAlmostEqual, 7)
}
