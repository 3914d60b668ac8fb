package goal

import (
	"math/rand"

	"go.viam.com/rrtplanner/spatial"
)

// Ball is a sampleable goal region: every state within Radius of Center under the
// owning Space's distance function.
type Ball struct {
	Space  spatial.Space
	Center spatial.State
	Radius float64

	rng        *rand.Rand
	maxSamples int
	sampled    int
}

// NewBall builds a Ball goal. maxSamples <= 0 defaults to 1, so the region is
// sampled at most once.
func NewBall(space spatial.Space, center spatial.State, radius float64, rng *rand.Rand, maxSamples int) *Ball {
	if maxSamples <= 0 {
		maxSamples = 1
	}
	return &Ball{Space: space, Center: center, Radius: radius, rng: rng, maxSamples: maxSamples}
}

func (g *Ball) IsSatisfied(s spatial.State) (bool, float64) {
	d := g.Space.Distance(s, g.Center)
	return d <= g.Radius, d
}

func (g *Ball) MaxSampleCount() int { return g.maxSamples }

func (g *Ball) CanSample() bool { return g.sampled < g.maxSamples }

// SampleGoal rejection-samples a point inside the ball from its bounding box.
func (g *Ball) SampleGoal(out spatial.State) {
	for {
		for i := range out {
			out[i] = g.Center[i] + (g.rng.Float64()*2-1)*g.Radius
		}
		if g.Space.Distance(out, g.Center) <= g.Radius {
			break
		}
	}
	g.sampled++
}
