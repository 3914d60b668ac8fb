package rrtstar

import (
	"go.viam.com/rrtplanner/spatial"
)

// driftSpace wraps a EuclideanSpace with a directional "current": moving toward
// increasing X is cheap, moving back against it costs extra. Distance is therefore
// asymmetric (Distance(a, b) != Distance(b, a) whenever a[0] != b[0]), exercising
// the choose-parent/rewire orientation-swap branches (§4.1g/j) that a purely
// Euclidean space never reaches.
type driftSpace struct {
	*spatial.EuclideanSpace
	againstDriftFactor float64
}

func newDriftSpace(euclidean *spatial.EuclideanSpace, againstDriftFactor float64) *driftSpace {
	return &driftSpace{EuclideanSpace: euclidean, againstDriftFactor: againstDriftFactor}
}

func (s *driftSpace) Distance(a, b spatial.State) float64 {
	d := s.EuclideanSpace.Distance(a, b)
	if b[0] < a[0] {
		return d * s.againstDriftFactor
	}
	return d
}

func (s *driftSpace) HasSymmetricDistance() bool { return false }
