// Package goal is the goal-region abstraction the planner treats as an external
// collaborator (§6.1's Goal contract).
package goal

import "go.viam.com/rrtplanner/spatial"

// Goal is satisfied by some subset of the configuration space.
type Goal interface {
	// IsSatisfied reports whether s lies in the goal region, plus a distance-like
	// value the planner keeps as its best approximate-solution score even when no
	// exact solution is ever found. Implementations with no meaningful distance may
	// always return 0 there.
	IsSatisfied(s spatial.State) (ok bool, distance float64)
}

// SampleableGoal additionally supports direct sampling, letting the planner bias
// exploration toward the goal region per §4.1(a).
type SampleableGoal interface {
	Goal
	MaxSampleCount() int
	CanSample() bool
	SampleGoal(out spatial.State)
}
