package rrtstar

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/rrtplanner/goal"
	"go.viam.com/rrtplanner/logging"
	"go.viam.com/rrtplanner/nn"
	"go.viam.com/rrtplanner/objective"
	"go.viam.com/rrtplanner/spatial"
)

func unitBounds() spatial.Bounds {
	return spatial.Bounds{Min: []float64{0, 0}, Max: []float64{10, 10}}
}

func iterationLimit(p *Planner, max uint64) TerminationCondition {
	return func() bool { return p.Iterations() >= max }
}

func newTestPlanner(valid spatial.CollisionChecker, seed int64, useTRRT bool) (*Planner, *spatial.EuclideanSpace) {
	rng := rand.New(rand.NewSource(seed))
	space := spatial.NewEuclideanSpace(unitBounds(), valid, 0.02, rng)
	obj := objective.NewPathLength(space, 0)
	g := goal.NewBall(space, spatial.State{9, 9}, 0.5, rng, 20)
	params := DefaultParams()
	params.UseTRRT = useTRRT
	p := New(space, obj, g, space.AllocStateSampler(), rng, logging.NewTestLogger("rrtstar_test"), params)
	p.NN = nn.NewKDTree()
	return p, space
}

func TestSolveTrivialStraightLine(t *testing.T) {
	p, _ := newTestPlanner(nil, 1, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sol, err := p.Solve(ctx, []spatial.State{{0, 0}}, iterationLimit(p, 2000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol, test.ShouldNotBeNil)
	test.That(t, len(sol.Path), test.ShouldBeGreaterThan, 1)
	test.That(t, sol.Path[0].State(), test.ShouldResemble, spatial.State{0, 0})
}

func TestSolveRespectsNarrowPassage(t *testing.T) {
	// A wall at x==5 with a single gap near y==5.
	valid := func(s spatial.State) bool {
		if s[0] < 4.9 || s[0] > 5.1 {
			return true
		}
		return s[1] > 4.5 && s[1] < 5.5
	}
	p, _ := newTestPlanner(valid, 2, false)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sol, err := p.Solve(ctx, []spatial.State{{0, 0}}, iterationLimit(p, 20000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol, test.ShouldNotBeNil)
	for _, m := range sol.Path {
		test.That(t, valid(m.State()), test.ShouldBeTrue)
	}
}

func TestSolveApproximateFallbackWhenGoalUnreachable(t *testing.T) {
	// A solid wall with no gap at all: the goal beyond it is unreachable.
	valid := func(s spatial.State) bool { return s[0] < 4.9 || s[0] > 5.1 }
	p, _ := newTestPlanner(valid, 3, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sol, err := p.Solve(ctx, []spatial.State{{0, 0}}, iterationLimit(p, 3000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol, test.ShouldNotBeNil)
	test.That(t, sol.Approximate, test.ShouldBeTrue)
	test.That(t, len(sol.Path), test.ShouldBeGreaterThan, 0)
}

func TestTreeInvariantsHoldAfterSolve(t *testing.T) {
	p, _ := newTestPlanner(nil, 4, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.Solve(ctx, []spatial.State{{0, 0}}, iterationLimit(p, 1500))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Validate(), test.ShouldBeNil)
}

func TestClearResetsStateForDeterministicReplay(t *testing.T) {
	seed := int64(55)

	p1, _ := newTestPlanner(nil, seed, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sol1, err := p1.Solve(ctx, []spatial.State{{0, 0}}, iterationLimit(p1, 500))
	test.That(t, err, test.ShouldBeNil)

	p1.Clear()
	test.That(t, p1.Iterations(), test.ShouldEqual, uint64(0))
	test.That(t, p1.NN.Len(), test.ShouldEqual, 0)

	// Re-seed the same RNG and re-solve; the rebuilt tree's best cost should match.
	p2, _ := newTestPlanner(nil, seed, false)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	sol2, err := p2.Solve(ctx2, []spatial.State{{0, 0}}, iterationLimit(p2, 500))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, sol2.BestCost, test.ShouldEqual, sol1.BestCost)
}

func TestTRRTAcceptsUphillEdgesEarlyAtHighTemperature(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	uniform := func() float64 { return 0.999999 } // always accept when p is tiny but > 0
	tt := newTransitionTest(1e6, 1e-9, 2.0, 1.0, 10, uniform)
	_ = rng

	// A large uphill slope at a huge temperature should still be accepted.
	test.That(t, tt.accept(100, 0, 1), test.ShouldBeTrue)
}

func TestTRRTCoolsOnAcceptAndHeatsAfterFailureStreak(t *testing.T) {
	calls := 0
	uniform := func() float64 {
		calls++
		return 0 // always <= p, so always accepted at step 1
	}
	tt := newTransitionTest(1.0, 1e-9, 2.0, 1.0, 10, uniform)
	tt.accept(1, 0, 1)
	test.That(t, tt.temp, test.ShouldBeLessThan, 1.0)

	reject := func() float64 { return 1 } // never <= p, always rejected
	tt2 := newTransitionTest(1.0, 1e-9, 2.0, 1.0, 2, reject)
	tt2.accept(1, 0, 1)
	tt2.accept(1, 0, 1)
	startTemp := tt2.temp
	tt2.accept(1, 0, 1) // crosses maxStatesFailed, should heat up
	test.That(t, tt2.temp, test.ShouldBeGreaterThan, startTemp)
}

func TestMinExpansionControlRateLimitsRefinement(t *testing.T) {
	m := newMinExpansionControl(1.0, 0.5)
	rejected := 0
	// Edges shorter than the frontier threshold are refinement edges.
	for i := 0; i < 10; i++ {
		if !m.accept(0.1, func() { rejected++ }) {
			// rejected
		}
	}
	test.That(t, rejected, test.ShouldBeGreaterThan, 0)
}

func TestPlannerDataExportTagsStartAndGoal(t *testing.T) {
	p, _ := newTestPlanner(nil, 7, false)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sol, err := p.Solve(ctx, []spatial.State{{0, 0}}, iterationLimit(p, 800))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol, test.ShouldNotBeNil)

	data := p.ExportPlannerData()
	test.That(t, len(data.Vertices), test.ShouldBeGreaterThan, 0)
	test.That(t, len(data.Edges), test.ShouldEqual, len(data.Vertices)-1)

	starts, goals := 0, 0
	for _, v := range data.Vertices {
		if v.Start {
			starts++
		}
		if v.Goal {
			goals++
		}
	}
	test.That(t, starts, test.ShouldEqual, 1)
	wantGoals := 0
	if p.LastGoalMotion() != nil {
		wantGoals = 1
	}
	test.That(t, goals, test.ShouldEqual, wantGoals)

	raw, err := data.JSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(raw), test.ShouldBeGreaterThan, 0)
}

func TestSolveWithNoStartsReturnsError(t *testing.T) {
	p, _ := newTestPlanner(nil, 8, false)
	_, err := p.Solve(context.Background(), nil, func() bool { return true })
	test.That(t, err, test.ShouldEqual, errNoStart)
}

// TestSolveReturnsPartialSolutionOnCancellation exercises real mid-solve
// cancellation, independent of any TerminationCondition: the background goroutine
// must notice ctx.Done() on its own, finish assembling whatever solution the tree
// already has, and Solve must return it rather than ctx.Err() (§5, §7).
func TestSolveReturnsPartialSolutionOnCancellation(t *testing.T) {
	p, _ := newTestPlanner(nil, 9, false)
	ctx, cancel := context.WithCancel(context.Background())

	// A TerminationCondition that never fires on its own; only ctx cancellation
	// can stop the loop. Cancel once the tree has grown enough to guarantee at
	// least an approximate solution exists.
	tc := func() bool {
		if p.Iterations() >= 50 {
			cancel()
		}
		return false
	}

	sol, err := p.Solve(ctx, []spatial.State{{0, 0}}, tc)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol, test.ShouldNotBeNil)
	test.That(t, len(sol.Path), test.ShouldBeGreaterThan, 0)
}

func newAsymmetricTestPlanner(seed int64) (*Planner, *driftSpace) {
	rng := rand.New(rand.NewSource(seed))
	euclidean := spatial.NewEuclideanSpace(unitBounds(), nil, 0.02, rng)
	space := newDriftSpace(euclidean, 5.0)
	obj := objective.NewPathLength(space, 0)
	g := goal.NewBall(space, spatial.State{9, 9}, 0.5, rng, 20)
	params := DefaultParams()
	p := New(space, obj, g, space.AllocStateSampler(), rng, logging.NewTestLogger("rrtstar_test"), params)
	// KDTree only ever orders by Euclidean distance (its SetDistanceFunction is a
	// no-op, per DESIGN.md); an asymmetric Space needs Linear, which honors the
	// swapped orientation the choose-parent/rewire steps install.
	p.NN = nn.NewLinear(p.forwardDistance, 1)
	return p, space
}

// TestSolveHandlesAsymmetricDistance exercises the choiceOrientedDistance/
// forwardDistance re-query branches (§4.1g/j), which a HasSymmetricDistance==true
// Space never reaches.
func TestSolveHandlesAsymmetricDistance(t *testing.T) {
	p, space := newAsymmetricTestPlanner(10)
	test.That(t, space.HasSymmetricDistance(), test.ShouldBeFalse)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sol, err := p.Solve(ctx, []spatial.State{{0, 0}}, iterationLimit(p, 2000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sol, test.ShouldNotBeNil)
	test.That(t, len(sol.Path), test.ShouldBeGreaterThan, 1)
	test.That(t, p.Validate(), test.ShouldBeNil)
}
