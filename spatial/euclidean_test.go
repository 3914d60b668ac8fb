package spatial

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func unitSquare() Bounds {
	return Bounds{Min: []float64{0, 0}, Max: []float64{1, 1}}
}

func TestEuclideanDistanceAndInterpolate(t *testing.T) {
	s := NewEuclideanSpace(unitSquare(), nil, 0.05, rand.New(rand.NewSource(1)))

	a := State{0, 0}
	b := State{3, 4}
	test.That(t, s.Distance(a, b), test.ShouldAlmostEqual, 5.0)

	mid := s.AllocState()
	s.Interpolate(a, b, 0.5, mid)
	test.That(t, mid[0], test.ShouldAlmostEqual, 1.5)
	test.That(t, mid[1], test.ShouldAlmostEqual, 2.0)
}

func TestEuclideanCheckMotionRejectsObstacle(t *testing.T) {
	valid := func(s State) bool { return s[0] < 0.5 || s[0] > 0.6 }
	s := NewEuclideanSpace(unitSquare(), valid, 0.01, rand.New(rand.NewSource(1)))

	test.That(t, s.CheckMotion(State{0, 0}, State{0.3, 0}), test.ShouldBeTrue)
	test.That(t, s.CheckMotion(State{0, 0}, State{1, 0}), test.ShouldBeFalse)
}

func TestEuclideanMaximumExtentAndDimension(t *testing.T) {
	s := NewEuclideanSpace(Bounds{Min: []float64{0, 0, 0}, Max: []float64{3, 4, 0}}, nil, 0.1, rand.New(rand.NewSource(1)))
	test.That(t, s.Dimension(), test.ShouldEqual, 3)
	test.That(t, s.MaximumExtent(), test.ShouldAlmostEqual, 5.0)
}

func TestUniformSamplerStaysInBounds(t *testing.T) {
	s := NewEuclideanSpace(unitSquare(), nil, 0.05, rand.New(rand.NewSource(42)))
	sampler := s.AllocStateSampler()
	out := s.AllocState()
	for i := 0; i < 100; i++ {
		sampler.SampleUniform(out)
		for d := range out {
			test.That(t, out[d], test.ShouldBeBetweenOrEqual, 0.0, 1.0)
		}
	}
}
