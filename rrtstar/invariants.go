package rrtstar

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Validate checks the tree invariants T1-T5 (§3) against the planner's current
// state and returns every violation found, combined with multierr, or nil if the
// tree is consistent. It is meant for tests and debugging, not the hot path.
func (p *Planner) Validate() error {
	var errs error
	seen := make(map[*Motion]bool)
	for _, root := range p.roots {
		if root.parent != nil {
			errs = multierr.Append(errs, errors.Errorf("root motion %s has a parent", root.id))
		}
		errs = multierr.Append(errs, p.validateSubtree(root, seen))
	}
	if p.NN != nil && p.NN.Len() != len(seen) {
		errs = multierr.Append(errs, errors.Errorf("nn index holds %d motions but the tree reaches %d", p.NN.Len(), len(seen)))
	}
	return errs
}

func (p *Planner) validateSubtree(n *Motion, seen map[*Motion]bool) error {
	if seen[n] {
		return errors.Errorf("motion %s reached twice: parent-pointer cycle", n.id)
	}
	seen[n] = true

	var errs error
	for _, c := range n.children {
		if c.parent != n {
			errs = multierr.Append(errs, errors.Errorf("child %s of %s does not point back to its parent", c.id, n.id))
		}
		if expected := p.Objective.CombineCosts(n.cost, c.incCost); expected != c.cost {
			errs = multierr.Append(errs, errors.Errorf(
				"motion %s cost %.6f does not equal combine(parent cost, incCost) %.6f", c.id, c.cost, expected))
		}
		errs = multierr.Append(errs, p.validateSubtree(c, seen))
	}
	return errs
}
