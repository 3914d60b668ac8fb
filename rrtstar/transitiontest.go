package rrtstar

import "math"

// transitionTest is a Metropolis acceptance gate over the cost slope of a
// candidate edge, with a temperature that cools on acceptance and heats up after
// a streak of rejections (§4.2). It only runs when Params.UseTRRT is set; plain
// RRT* never constructs one.
type transitionTest struct {
	temp             float64
	numStatesFailed  uint
	maxStatesFailed  uint
	tempChangeFactor float64
	minTemperature   float64
	kConstant        float64
	uniform          func() float64 // [0,1), injected for determinism
}

func newTransitionTest(initTemp, minTemp, tempChangeFactor, kConstant float64, maxStatesFailed uint, uniform func() float64) *transitionTest {
	return &transitionTest{
		temp:             initTemp,
		maxStatesFailed:  maxStatesFailed,
		tempChangeFactor: tempChangeFactor,
		minTemperature:   minTemp,
		kConstant:        kConstant,
		uniform:          uniform,
	}
}

// accept reports whether an edge of edgeDistance raising cost from parentCost to
// childCost should be kept, per §4.2 steps 1-5.
func (t *transitionTest) accept(childCost, parentCost, edgeDistance float64) bool {
	if childCost <= parentCost {
		return true
	}
	if edgeDistance <= 0 {
		edgeDistance = 1e-9
	}
	slope := (childCost - parentCost) / edgeDistance
	p := math.Exp(-slope / (t.kConstant * t.temp))

	if t.uniform() <= p {
		if t.temp > t.minTemperature {
			t.temp = math.Max(t.temp/t.tempChangeFactor, t.minTemperature)
		}
		t.numStatesFailed = 0
		return true
	}

	if t.numStatesFailed >= t.maxStatesFailed {
		t.temp *= t.tempChangeFactor
		t.numStatesFailed = 0
	} else {
		t.numStatesFailed++
	}
	return false
}
