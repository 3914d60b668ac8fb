package rrtstar

import (
	"go.viam.com/rrtplanner/objective"
	"go.viam.com/rrtplanner/spatial"
)

// testStateCount is how many states setDefaults samples to estimate kConstant
// from the objective's typical per-state cost (§4.6).
const testStateCount = 1000

// Params holds the planner's tunables (§6.2). Zero values for Range,
// FrontierThreshold, and KConstant tell setDefaults to self-configure them from
// the space and objective the first time Solve runs.
type Params struct {
	Range             float64
	GoalBias          float64
	DelayCC           bool
	MaxStatesFailed   uint
	TempChangeFactor  float64
	MinTemperature    float64
	InitTemperature   float64
	FrontierThreshold float64
	FrontierNodeRatio float64
	KConstant         float64

	// UseTRRT switches on the transition-test and min-expansion-control gates
	// from §4.2/§4.3. Plain RRT* (the default) never constructs either.
	UseTRRT bool
}

// DefaultParams returns the §6.2 defaults.
func DefaultParams() Params {
	return Params{
		GoalBias:          0.05,
		DelayCC:           true,
		MaxStatesFailed:   10,
		TempChangeFactor:  2.0,
		MinTemperature:    1e-9,
		InitTemperature:   1e-4,
		FrontierNodeRatio: 0.1,
	}
}

func (p *Params) setDefaults(space spatial.Space, obj objective.Objective) {
	if p.Range <= 0 {
		p.Range = 0.05 * space.MaximumExtent()
		if p.Range <= 0 {
			p.Range = 1
		}
	}
	if p.FrontierThreshold <= 0 {
		p.FrontierThreshold = 0.01 * space.MaximumExtent()
	}
	if p.KConstant <= 0 {
		p.KConstant = float64(obj.AverageStateCost(testStateCount))
		if p.KConstant <= 0 {
			p.KConstant = 1
		}
	}
}
