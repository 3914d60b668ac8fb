package rrtstar

import "go.viam.com/rrtplanner/objective"

// costIndexSorter orders a slice of neighbor indices by their precomputed
// candidate cost, using the objective's IsCostBetterThan relation rather than a
// raw numeric comparison so an objective with an unusual cost ordering still
// sorts consistently (§4.4).
type costIndexSorter struct {
	indices []int
	costs   []objective.Cost
	obj     objective.Objective
}

func (s *costIndexSorter) Len() int      { return len(s.indices) }
func (s *costIndexSorter) Swap(i, j int) { s.indices[i], s.indices[j] = s.indices[j], s.indices[i] }
func (s *costIndexSorter) Less(i, j int) bool {
	return s.obj.IsCostBetterThan(s.costs[s.indices[i]], s.costs[s.indices[j]])
}
