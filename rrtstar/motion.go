// Package rrtstar implements an asymptotically-optimal sampling-based motion
// planner: RRT*'s incremental rewiring tree, with an optional Transition-RRT
// cost-biased acceptance gate layered on top (§9).
package rrtstar

import (
	"github.com/google/uuid"

	"go.viam.com/rrtplanner/objective"
	"go.viam.com/rrtplanner/spatial"
)

// Motion is one node of the search tree: a configuration plus the parent edge that
// reached it and the cumulative cost of the path from a root. T1-T5 (§3) must hold
// for every Motion reachable from Planner.roots at the end of any iteration.
type Motion struct {
	id       uuid.UUID
	state    spatial.State
	parent   *Motion
	children []*Motion
	incCost  objective.Cost
	cost     objective.Cost
}

func newMotion(state spatial.State) *Motion {
	return &Motion{id: uuid.New(), state: state}
}

// State satisfies nn.Item without the nn package importing rrtstar.
func (m *Motion) State() spatial.State { return m.state }

func (m *Motion) ID() uuid.UUID           { return m.id }
func (m *Motion) Parent() *Motion         { return m.parent }
func (m *Motion) Children() []*Motion     { return m.children }
func (m *Motion) IncCost() objective.Cost { return m.incCost }
func (m *Motion) Cost() objective.Cost    { return m.cost }
func (m *Motion) IsRoot() bool            { return m.parent == nil }

// removeFromParent deletes n's occurrence from n.parent.children. It is a no-op
// for a root Motion.
func removeFromParent(n *Motion) {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			return
		}
	}
}

// updateChildCosts recomputes cost for every descendant of n, using an explicit
// work-stack rather than recursion: a long thin tree can be as deep as the
// iteration count, and recursion there risks a stack overflow.
func updateChildCosts(n *Motion, obj objective.Objective) {
	stack := append([]*Motion(nil), n.children...)
	for len(stack) > 0 {
		last := len(stack) - 1
		c := stack[last]
		stack = stack[:last]
		c.cost = obj.CombineCosts(c.parent.cost, c.incCost)
		stack = append(stack, c.children...)
	}
}
