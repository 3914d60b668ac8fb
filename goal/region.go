package goal

import "go.viam.com/rrtplanner/spatial"

// Region implements Goal for an arbitrary predicate, with an optional distance
// function for approximate-solution scoring. It has no direct sampling support;
// the planner falls back to uniform sampling of the space when given one.
type Region struct {
	Predicate    func(spatial.State) bool
	DistanceFunc func(spatial.State) float64
}

func (g *Region) IsSatisfied(s spatial.State) (bool, float64) {
	var d float64
	if g.DistanceFunc != nil {
		d = g.DistanceFunc(s)
	}
	return g.Predicate(s), d
}
