package spatial

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Bounds is a per-dimension [Min, Max] box used for sampling and MaximumExtent.
type Bounds struct {
	Min, Max []float64
}

func (b Bounds) dim() int { return len(b.Min) }

// EuclideanSpace is a configuration space over ℝⁿ with Euclidean distance and
// axis-aligned sampling bounds. Validity is delegated to an injected
// CollisionChecker, sampled along candidate edges at roughly Resolution spacing
// (a fraction of MaximumExtent).
type EuclideanSpace struct {
	Bounds     Bounds
	Resolution float64
	Valid      CollisionChecker

	rng *rand.Rand
}

// NewEuclideanSpace builds a EuclideanSpace. resolution <= 0 defaults to 0.01; a
// nil valid treats every configuration as free (useful for planner-only tests).
func NewEuclideanSpace(bounds Bounds, valid CollisionChecker, resolution float64, rng *rand.Rand) *EuclideanSpace {
	if resolution <= 0 {
		resolution = 0.01
	}
	if valid == nil {
		valid = func(State) bool { return true }
	}
	return &EuclideanSpace{Bounds: bounds, Resolution: resolution, Valid: valid, rng: rng}
}

func (s *EuclideanSpace) AllocState() State { return make(State, s.Bounds.dim()) }

func (s *EuclideanSpace) CopyState(dst, src State) { copy(dst, src) }

func (s *EuclideanSpace) FreeState(State) {}

func (s *EuclideanSpace) Distance(a, b State) float64 {
	return floats.Distance(a, b, 2)
}

func (s *EuclideanSpace) Interpolate(a, b State, t float64, out State) {
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
}

// CheckMotion walks the segment a→b in steps sized by Resolution*MaximumExtent,
// rejecting as soon as an endpoint or an intermediate sample is invalid.
func (s *EuclideanSpace) CheckMotion(a, b State) bool {
	if !s.Valid(a) || !s.Valid(b) {
		return false
	}
	d := s.Distance(a, b)
	if d == 0 {
		return true
	}
	step := s.Resolution * s.MaximumExtent()
	if step <= 0 {
		step = d
	}
	nSteps := int(math.Ceil(d / step))
	if nSteps < 1 {
		nSteps = 1
	}
	mid := s.AllocState()
	for i := 1; i < nSteps; i++ {
		t := float64(i) / float64(nSteps)
		s.Interpolate(a, b, t, mid)
		if !s.Valid(mid) {
			return false
		}
	}
	return true
}

func (s *EuclideanSpace) HasSymmetricDistance() bool    { return true }
func (s *EuclideanSpace) HasSymmetricInterpolate() bool { return true }

func (s *EuclideanSpace) MaximumExtent() float64 {
	var sumSq float64
	for i := range s.Bounds.Min {
		d := s.Bounds.Max[i] - s.Bounds.Min[i]
		sumSq += d * d
	}
	return math.Sqrt(sumSq)
}

func (s *EuclideanSpace) Dimension() int { return s.Bounds.dim() }

func (s *EuclideanSpace) AllocStateSampler() Sampler { return &uniformSampler{space: s} }

type uniformSampler struct{ space *EuclideanSpace }

func (u *uniformSampler) SampleUniform(out State) {
	b := u.space.Bounds
	for i := range out {
		out[i] = b.Min[i] + u.space.rng.Float64()*(b.Max[i]-b.Min[i])
	}
}
