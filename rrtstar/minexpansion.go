package rrtstar

// minExpansionControl accepts frontier-extending edges unconditionally and
// rate-limits refinement (non-frontier) edges against a configurable ratio, so the
// tree keeps growing outward instead of only densifying near the root (§4.3). It
// only runs when Params.UseTRRT is set.
type minExpansionControl struct {
	frontierCount     uint
	nonfrontierCount  uint
	frontierThreshold float64
	frontierNodeRatio float64
}

func newMinExpansionControl(frontierThreshold, frontierNodeRatio float64) *minExpansionControl {
	return &minExpansionControl{
		frontierCount:     1,
		nonfrontierCount:  1,
		frontierThreshold: frontierThreshold,
		frontierNodeRatio: frontierNodeRatio,
	}
}

// accept reports whether a candidate reached by an edge of edgeDistance should be
// kept. onReject runs when a refinement candidate is rejected for exceeding the
// ratio, giving the caller a chance to bias the transition test toward exploration.
func (m *minExpansionControl) accept(edgeDistance float64, onReject func()) bool {
	if edgeDistance > m.frontierThreshold {
		m.frontierCount++
		return true
	}
	if float64(m.nonfrontierCount)/float64(m.frontierCount) > m.frontierNodeRatio {
		if onReject != nil {
			onReject()
		}
		return false
	}
	m.nonfrontierCount++
	return true
}
