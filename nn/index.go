// Package nn is the nearest-neighbor abstraction the planner treats as an external
// collaborator (§6.1's NearestNeighbors<Motion> contract): add, nearest, k-nearest,
// list, clear, size, and a swappable distance function for the asymmetric-space case.
package nn

import "go.viam.com/rrtplanner/spatial"

// Item is anything an Index can store; it must expose the configuration State it
// was inserted under. The planner's Motion type satisfies this.
type Item interface {
	State() spatial.State
}

// DistanceFunc measures the distance from a to b. Implementations may be
// asymmetric; Index implementations that only support symmetric distances
// document that restriction.
type DistanceFunc func(a, b spatial.State) float64

// Index stores Items and answers nearest-neighbor queries against them.
type Index interface {
	Add(item Item)
	Nearest(target spatial.State) Item
	NearestK(target spatial.State, k int) []Item
	List() []Item
	Clear()
	Len() int
	// SetDistanceFunction swaps the distance used for subsequent queries. The
	// planner calls this to flip query orientation around an asymmetric Space's
	// Distance, per §4.1(g).
	SetDistanceFunction(fn DistanceFunc)
}
