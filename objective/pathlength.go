package objective

import (
	"math"

	"go.viam.com/rrtplanner/spatial"
)

// PathLength is the plain path-length objective: every state costs nothing on its
// own, and an edge costs the distance between its endpoints under the owning
// Space. It is the objective the hard-core RRT* loop is exercised against.
type PathLength struct {
	Space     spatial.Space
	Threshold Cost // <= 0 means "never sufficient on its own; run until termination"
}

// NewPathLength builds a PathLength objective over space, satisfied once the best
// found cost is at or below threshold.
func NewPathLength(space spatial.Space, threshold Cost) *PathLength {
	return &PathLength{Space: space, Threshold: threshold}
}

func (o *PathLength) StateCost(spatial.State) Cost { return 0 }

func (o *PathLength) MotionCost(a, b spatial.State) Cost {
	return Cost(o.Space.Distance(a, b))
}

func (o *PathLength) CombineCosts(a, b Cost) Cost { return a + b }

func (o *PathLength) IdentityCost() Cost { return 0 }

func (o *PathLength) InfiniteCost() Cost { return Cost(math.Inf(1)) }

func (o *PathLength) IsCostBetterThan(a, b Cost) bool { return a < b }

func (o *PathLength) IsSatisfied(c Cost) bool {
	if o.Threshold <= 0 {
		return false
	}
	return c <= o.Threshold
}

func (o *PathLength) AverageStateCost(n int) Cost {
	if n <= 0 {
		return 0
	}
	sampler := o.Space.AllocStateSampler()
	s := o.Space.AllocState()
	defer o.Space.FreeState(s)
	var sum Cost
	for i := 0; i < n; i++ {
		sampler.SampleUniform(s)
		sum += o.StateCost(s)
	}
	return sum / Cost(n)
}

func (o *PathLength) IsSymmetric() bool { return o.Space.HasSymmetricDistance() }
