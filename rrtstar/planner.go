package rrtstar

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"go.viam.com/utils"

	"go.viam.com/rrtplanner/goal"
	"go.viam.com/rrtplanner/logging"
	"go.viam.com/rrtplanner/nn"
	"go.viam.com/rrtplanner/objective"
	"go.viam.com/rrtplanner/spatial"
)

// TerminationCondition reports whether the solve loop should stop. The planner
// polls it once per iteration in addition to watching ctx, without ever blocking
// on either.
type TerminationCondition func() bool

// logIterationInterval controls how often solveInternal emits a Debug
// iteration-milestone log; logging every iteration would drown a multi-million
// iteration solve in noise.
const logIterationInterval = 500

// Solution is what Solve reports (§4.1's post-loop output).
type Solution struct {
	Path            []*Motion
	Approximate     bool
	ApproximateDist float64
	BestCost        objective.Cost
	Sufficient      bool
}

// Planner owns the tree, the nearest-neighbor index, the RNG, and the optional
// T-RRT heuristics' state, and runs the solve loop tying the external
// collaborators together. It is not safe for concurrent use by multiple
// goroutines.
type Planner struct {
	Space     spatial.Space
	Objective objective.Objective
	Goal      goal.Goal
	Sampler   spatial.Sampler
	Rand      *rand.Rand
	Logger    logging.Logger
	Params    Params
	// NN is the nearest-neighbor index to grow the tree in. If nil, Solve
	// allocates a Linear index sized for a single worker.
	NN nn.Index

	roots       []*Motion
	goalMotions []*Motion
	lastGoal    *Motion
	bestCost    objective.Cost

	transitionTest      *transitionTest
	minExpansionControl *minExpansionControl

	iterations      uint64
	collisionChecks uint64

	kRRG float64

	symDist   bool
	symInterp bool
	symCost   bool
}

// New builds a Planner. Call Solve to grow the tree and search for a path.
func New(space spatial.Space, obj objective.Objective, g goal.Goal, sampler spatial.Sampler, rng *rand.Rand, logger logging.Logger, params Params) *Planner {
	return &Planner{
		Space: space, Objective: obj, Goal: g, Sampler: sampler, Rand: rng,
		Logger: logger, Params: params,
	}
}

// Solve grows the tree from starts until tc reports done, ctx is canceled, or a
// sufficient solution is found, then returns the best path available. The search
// itself runs on a background goroutine; a canceled ctx is only ever noticed at
// the one poll point inside solveInternal's loop, which always finishes the
// current iteration and assembles whatever exact or approximate solution the
// tree has at that point before returning (§5) — Solve simply awaits that
// result rather than racing ctx.Done() itself, which would otherwise discard a
// solution that was already found or about to be assembled.
func (p *Planner) Solve(ctx context.Context, starts []spatial.State, tc TerminationCondition) (*Solution, error) {
	if len(starts) == 0 {
		return nil, errNoStart
	}

	type result struct {
		sol *Solution
		err error
	}
	resultChan := make(chan result, 1)

	utils.PanicCapturingGo(func() {
		sol, err := p.solveInternal(ctx, starts, tc)
		resultChan <- result{sol, err}
	})

	res := <-resultChan
	return res.sol, res.err
}

func (p *Planner) solveInternal(ctx context.Context, starts []spatial.State, tc TerminationCondition) (*Solution, error) {
	p.Params.setDefaults(p.Space, p.Objective)

	if p.NN == nil {
		p.NN = nn.NewLinear(p.forwardDistance, 1)
	}

	p.symDist = p.Space.HasSymmetricDistance()
	p.symInterp = p.Space.HasSymmetricInterpolate()
	p.symCost = p.Objective.IsSymmetric()

	d := float64(p.Space.Dimension())
	p.kRRG = math.E + math.E/d

	if p.Params.UseTRRT {
		p.transitionTest = newTransitionTest(
			p.Params.InitTemperature, p.Params.MinTemperature, p.Params.TempChangeFactor,
			p.Params.KConstant, p.Params.MaxStatesFailed, p.Rand.Float64,
		)
		p.minExpansionControl = newMinExpansionControl(p.Params.FrontierThreshold, p.Params.FrontierNodeRatio)
	}

	p.bestCost = p.Objective.InfiniteCost()
	for _, s := range starts {
		root := newMotion(s)
		root.cost = p.Objective.IdentityCost()
		p.roots = append(p.roots, root)
		p.NN.Add(root)
	}

	sampleableGoal, _ := p.Goal.(goal.SampleableGoal)

	xstate := p.Space.AllocState()
	defer p.Space.FreeState(xstate)
	rstate := p.Space.AllocState()
	defer p.Space.FreeState(rstate)

	var solution *Motion
	var approximateMotion *Motion
	approximateDist := math.Inf(1)
	sufficient := false

	p.Logger.CInfof(ctx, "solve starting: %d start state(s), use_t_rrt=%v", len(starts), p.Params.UseTRRT)

loop:
	for !tc() {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		p.iterations++
		if p.iterations%logIterationInterval == 0 {
			p.Logger.CDebugf(ctx, "iteration %d: %d motions in tree, best cost %v", p.iterations, p.NN.Len(), p.bestCost)
		}

		// (a) sample: goal-biased with probability GoalBias, else uniform.
		sampleTarget := rstate
		if sampleableGoal != nil && len(p.goalMotions) < sampleableGoal.MaxSampleCount() &&
			sampleableGoal.CanSample() && p.Rand.Float64() < p.Params.GoalBias {
			sampleableGoal.SampleGoal(sampleTarget)
		} else {
			p.Sampler.SampleUniform(sampleTarget)
		}

		// (b) nearest.
		nitem := p.NN.Nearest(sampleTarget)
		if nitem == nil {
			continue
		}
		nmotion := nitem.(*Motion)

		// (c) steer: clamp the new state to at most Range away from nmotion.
		dist := p.Space.Distance(nmotion.state, sampleTarget)
		dstate := sampleTarget
		motionDistance := dist
		if dist > p.Params.Range {
			p.Space.Interpolate(nmotion.state, sampleTarget, p.Params.Range/dist, xstate)
			dstate = xstate
			motionDistance = p.Space.Distance(nmotion.state, xstate)
		}

		// (d) motion check.
		p.collisionChecks++
		if !p.Space.CheckMotion(nmotion.state, dstate) {
			continue
		}

		// (e) optional T-RRT / min-expansion gates.
		if p.Params.UseTRRT {
			edgeCost := p.Objective.MotionCost(nmotion.state, dstate)
			childCost := p.Objective.CombineCosts(nmotion.cost, edgeCost)
			if !p.minExpansionControl.accept(motionDistance, func() { p.transitionTest.numStatesFailed++ }) {
				continue
			}
			tempBefore := p.transitionTest.temp
			accepted := p.transitionTest.accept(float64(childCost), float64(nmotion.cost), motionDistance)
			if p.transitionTest.temp != tempBefore {
				p.Logger.CDebugf(ctx, "transition test temperature %.6g -> %.6g at iteration %d", tempBefore, p.transitionTest.temp, p.iterations)
			}
			if !accepted {
				continue
			}
		}

		// (f) create candidate.
		mState := p.Space.AllocState()
		p.Space.CopyState(mState, dstate)
		m := newMotion(mState)
		m.parent = nmotion
		m.incCost = p.Objective.MotionCost(nmotion.state, dstate)
		m.cost = p.Objective.CombineCosts(nmotion.cost, m.incCost)

		// (g) k-nearest neighborhood, oriented for choose-parent.
		k := int(math.Ceil(p.kRRG * math.Log(float64(p.NN.Len()+1))))
		if k < 1 {
			k = 1
		}
		if !p.symDist {
			p.NN.SetDistanceFunction(p.choiceOrientedDistance)
		}
		nbh := p.motionsFrom(p.NN.NearestK(m.state, k))

		// (h) choose parent.
		cache, incCostCache := p.chooseParent(m, nmotion, nbh)

		// (i) insert.
		p.NN.Add(m)
		m.parent.children = append(m.parent.children, m)

		checkForSolution := false

		// (j) rewire, re-querying the neighborhood in forward orientation when
		// distance is asymmetric.
		rewireNbh := nbh
		if !p.symDist {
			p.NN.SetDistanceFunction(p.forwardDistance)
			rewireNbh = p.motionsFrom(p.NN.NearestK(m.state, k))
		}
		if p.rewire(m, rewireNbh, cache, incCostCache) {
			checkForSolution = true
		}

		// (k) goal test.
		satisfied, distFromGoal := p.Goal.IsSatisfied(m.state)
		if satisfied {
			p.goalMotions = append(p.goalMotions, m)
			checkForSolution = true
			p.Logger.CDebugf(ctx, "goal satisfied at iteration %d, candidate cost %v", p.iterations, m.cost)
		}

		// (l) solution bookkeeping.
		if checkForSolution {
			for _, gm := range p.goalMotions {
				if p.Objective.IsCostBetterThan(gm.cost, p.bestCost) {
					p.bestCost = gm.cost
					p.Logger.CDebugf(ctx, "new best cost %v at iteration %d", p.bestCost, p.iterations)
				}
				if solution == nil || p.Objective.IsCostBetterThan(gm.cost, solution.cost) {
					solution = gm
					p.lastGoal = gm
				}
				if p.Objective.IsSatisfied(gm.cost) {
					sufficient = true
				}
			}
			if sufficient {
				break
			}
		}

		// (m) approximate-solution tracking.
		if len(p.goalMotions) == 0 && distFromGoal < approximateDist {
			approximateMotion = m
			approximateDist = distFromGoal
		}
	}

	sol, err := p.buildSolution(solution, sufficient, approximateMotion, approximateDist)
	if err != nil {
		p.Logger.CWarnf(ctx, "solve finished after %d iterations with no solution: %v", p.iterations, err)
		return sol, err
	}
	p.Logger.CInfof(ctx, "solve finished after %d iterations: approximate=%v sufficient=%v best_cost=%v",
		p.iterations, sol.Approximate, sol.Sufficient, sol.BestCost)
	return sol, nil
}

func (p *Planner) forwardDistance(a, b spatial.State) float64 {
	return p.Space.Distance(a, b)
}

// choiceOrientedDistance measures from the stored neighbor to the query target,
// which is what choose-parent needs: "distance from each candidate to m" (§4.1g).
func (p *Planner) choiceOrientedDistance(target, candidate spatial.State) float64 {
	return p.Space.Distance(candidate, target)
}

func (p *Planner) motionsFrom(items []nn.Item) []*Motion {
	out := make([]*Motion, len(items))
	for i, it := range items {
		out[i] = it.(*Motion)
	}
	return out
}

// validityCache records motion-check outcomes discovered while choosing m's
// parent so rewire can reuse them when both distance and cost are symmetric.
// Values are 1 (valid) or -1 (invalid); an absent key means "not yet checked."
type validityCache map[*Motion]int8

// chooseParent implements §4.1(h): on return m.parent/incCost/cost describe the
// cheapest neighbor reachable by a collision-free edge (nmotion is always a
// valid fallback, already checked in step (d)).
func (p *Planner) chooseParent(m, nmotion *Motion, neighbors []*Motion) (validityCache, map[*Motion]objective.Cost) {
	if !p.Params.DelayCC {
		p.chooseParentEager(m, neighbors)
		return nil, nil
	}
	return p.chooseParentDelayed(m, nmotion, neighbors)
}

func (p *Planner) chooseParentEager(m *Motion, neighbors []*Motion) {
	for _, nb := range neighbors {
		if nb == m || nb == m.parent {
			continue
		}
		incCost := p.Objective.MotionCost(nb.state, m.state)
		cost := p.Objective.CombineCosts(nb.cost, incCost)
		if !p.Objective.IsCostBetterThan(cost, m.cost) {
			continue
		}
		p.collisionChecks++
		if p.Space.CheckMotion(nb.state, m.state) {
			m.parent = nb
			m.incCost = incCost
			m.cost = cost
		}
	}
}

func (p *Planner) chooseParentDelayed(m, nmotion *Motion, neighbors []*Motion) (validityCache, map[*Motion]objective.Cost) {
	incCosts := make(map[*Motion]objective.Cost, len(neighbors))
	costByIdx := make([]objective.Cost, len(neighbors))
	indices := make([]int, len(neighbors))
	for i, nb := range neighbors {
		ic := p.Objective.MotionCost(nb.state, m.state)
		incCosts[nb] = ic
		costByIdx[i] = p.Objective.CombineCosts(nb.cost, ic)
		indices[i] = i
	}
	sort.Sort(&costIndexSorter{indices: indices, costs: costByIdx, obj: p.Objective})

	cache := make(validityCache, len(neighbors))
	for _, idx := range indices {
		nb := neighbors[idx]
		if nb == m {
			continue
		}
		ok := nb == nmotion // already motion-checked in step (d)
		if !ok {
			p.collisionChecks++
			ok = p.Space.CheckMotion(nb.state, m.state)
			if p.symDist {
				if ok {
					cache[nb] = 1
				} else {
					cache[nb] = -1
				}
			}
		}
		if ok {
			m.parent = nb
			m.incCost = incCosts[nb]
			m.cost = costByIdx[idx]
			break
		}
	}
	if p.symCost && p.symDist {
		return cache, incCosts
	}
	return nil, nil
}

// rewire implements §4.1(j); it returns whether any neighbor's path improved,
// which the caller uses to decide whether to re-scan for a better solution.
func (p *Planner) rewire(m *Motion, neighbors []*Motion, cache validityCache, incCostCache map[*Motion]objective.Cost) bool {
	rewired := false
	for _, nb := range neighbors {
		if nb == m || nb == m.parent {
			continue
		}
		incCost, ok := incCostCache[nb]
		if !ok {
			incCost = p.Objective.MotionCost(m.state, nb.state)
		}
		newCost := p.Objective.CombineCosts(m.cost, incCost)
		if !p.Objective.IsCostBetterThan(newCost, nb.cost) {
			continue
		}
		valid, cached := cache[nb]
		var isValid bool
		if cached {
			isValid = valid == 1
		} else {
			p.collisionChecks++
			isValid = p.Space.CheckMotion(m.state, nb.state)
		}
		if !isValid {
			continue
		}
		removeFromParent(nb)
		nb.parent = m
		nb.incCost = incCost
		nb.cost = newCost
		m.children = append(m.children, nb)
		updateChildCosts(nb, p.Objective)
		rewired = true
	}
	return rewired
}

func (p *Planner) buildSolution(solution *Motion, sufficient bool, approximateMotion *Motion, approximateDist float64) (*Solution, error) {
	if solution != nil {
		return &Solution{Path: extractPath(solution), BestCost: p.bestCost, Sufficient: sufficient}, nil
	}
	if approximateMotion != nil {
		return &Solution{
			Path:            extractPath(approximateMotion),
			Approximate:     true,
			ApproximateDist: approximateDist,
			BestCost:        p.bestCost,
		}, nil
	}
	return nil, errPlannerFailed
}

func extractPath(end *Motion) []*Motion {
	var rev []*Motion
	for m := end; m != nil; m = m.parent {
		rev = append(rev, m)
	}
	path := make([]*Motion, len(rev))
	for i, m := range rev {
		path[len(rev)-1-i] = m
	}
	return path
}

// Clear resets the planner to its pre-Solve state, freeing every Motion's state
// through the owning Space, so a later Solve with the same seed reproduces the
// first solve's tree from scratch.
func (p *Planner) Clear() {
	for _, m := range p.allMotions() {
		p.Space.FreeState(m.state)
	}
	if p.NN != nil {
		p.NN.Clear()
	}
	p.roots = nil
	p.goalMotions = nil
	p.lastGoal = nil
	if p.Objective != nil {
		p.bestCost = p.Objective.InfiniteCost()
	}
	p.iterations = 0
	p.collisionChecks = 0
	p.transitionTest = nil
	p.minExpansionControl = nil
}

func (p *Planner) allMotions() []*Motion {
	if p.NN == nil {
		return nil
	}
	return p.motionsFrom(p.NN.List())
}

// Iterations is the number of sample/extend cycles Solve has run.
func (p *Planner) Iterations() uint64 { return p.iterations }

// CollisionChecks is the number of CheckMotion calls Solve has made.
func (p *Planner) CollisionChecks() uint64 { return p.collisionChecks }

// BestCost is the lowest-cost goal Motion's cost found so far, or the
// objective's InfiniteCost if none has been found yet.
func (p *Planner) BestCost() objective.Cost { return p.bestCost }

// GoalMotions lists every Motion that has satisfied Goal so far.
func (p *Planner) GoalMotions() []*Motion { return p.goalMotions }

// LastGoalMotion is the most recently improved best-known goal Motion.
func (p *Planner) LastGoalMotion() *Motion { return p.lastGoal }
