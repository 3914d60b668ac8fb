package rrtstar

import "github.com/pkg/errors"

var (
	// errNoStart is returned by Solve when the harness supplied no start states.
	errNoStart = errors.New("rrtstar: no start states provided")
	// errPlannerFailed is returned when Solve could not produce even an
	// approximate solution before termination or cancellation.
	errPlannerFailed = errors.New("rrtstar: solve made no progress toward the goal")
)
