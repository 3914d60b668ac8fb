// Package objective is the optimization-objective abstraction the planner treats as
// an external collaborator: per-state cost, per-edge cost, a combinator, and the
// comparator the rewiring loop sorts and bounds by (§6.1's OptimizationObjective
// contract).
package objective

import (
	"go.viam.com/rrtplanner/spatial"
)

// Cost is a scalar path cost. Lower is not always better: IsCostBetterThan is the
// single source of truth for ordering, so an objective can flip the sense if needed.
type Cost float64

// Objective is the cost model the planner optimizes against.
type Objective interface {
	StateCost(s spatial.State) Cost
	MotionCost(a, b spatial.State) Cost
	CombineCosts(a, b Cost) Cost
	IdentityCost() Cost
	InfiniteCost() Cost
	IsCostBetterThan(a, b Cost) bool
	IsSatisfied(c Cost) bool
	AverageStateCost(n int) Cost
	// IsSymmetric reports whether MotionCost(a, b) == MotionCost(b, a) for every
	// a, b. The planner uses this to decide whether a choose-parent collision and
	// cost check can be reused verbatim during rewire.
	IsSymmetric() bool
}
