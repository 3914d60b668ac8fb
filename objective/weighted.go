package objective

import (
	"math"

	"go.viam.com/rrtplanner/spatial"
)

// StateCostFunc scores a single configuration, e.g. proximity to an obstacle.
type StateCostFunc func(spatial.State) Cost

// Weighted combines path length with a per-state cost (clearance, terrain
// difficulty, etc.), trapezoidally integrated along the edge and scaled by Weight.
// This is the objective the optional transition-test gate (§4.2) is meant for: with
// Weight == 0 it degenerates to PathLength, and increasing Weight makes cost-uphill
// edges progressively rarer without the Metropolis test, motivating it.
type Weighted struct {
	Space     spatial.Space
	StateCost_ StateCostFunc
	Weight    float64
	Threshold Cost
}

// NewWeighted builds a Weighted objective over space, scoring states with
// stateCost and scaling their contribution to edge cost by weight.
func NewWeighted(space spatial.Space, stateCost StateCostFunc, weight float64, threshold Cost) *Weighted {
	if stateCost == nil {
		stateCost = func(spatial.State) Cost { return 0 }
	}
	return &Weighted{Space: space, StateCost_: stateCost, Weight: weight, Threshold: threshold}
}

func (o *Weighted) StateCost(s spatial.State) Cost { return o.StateCost_(s) }

func (o *Weighted) MotionCost(a, b spatial.State) Cost {
	length := Cost(o.Space.Distance(a, b))
	avg := (o.StateCost(a) + o.StateCost(b)) / 2
	return length + Cost(o.Weight)*avg*length
}

func (o *Weighted) CombineCosts(a, b Cost) Cost { return a + b }

func (o *Weighted) IdentityCost() Cost { return 0 }

func (o *Weighted) InfiniteCost() Cost { return Cost(math.Inf(1)) }

func (o *Weighted) IsCostBetterThan(a, b Cost) bool { return a < b }

func (o *Weighted) IsSatisfied(c Cost) bool {
	if o.Threshold <= 0 {
		return false
	}
	return c <= o.Threshold
}

func (o *Weighted) AverageStateCost(n int) Cost {
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

func (o *Weighted) IsSymmetric() bool { return o.Space.HasSymmetricDistance() }
