package rrtstar

import (
	"encoding/json"

	"github.com/google/uuid"

	"go.viam.com/rrtplanner/objective"
)

// Vertex is one exported tree node (§6.4).
type Vertex struct {
	ID    uuid.UUID      `json:"id"`
	State []float64      `json:"state"`
	Cost  objective.Cost `json:"cost"`
	Start bool           `json:"start,omitempty"`
	Goal  bool           `json:"goal,omitempty"`
}

// Edge is one exported parent-to-child edge.
type Edge struct {
	From uuid.UUID `json:"from"`
	To   uuid.UUID `json:"to"`
}

// PlannerData is a point-in-time export of the tree, for visualization or
// offline analysis (§6.4).
type PlannerData struct {
	Vertices        []Vertex `json:"vertices"`
	Edges           []Edge   `json:"edges"`
	Iterations      uint64   `json:"iterations"`
	CollisionChecks uint64   `json:"collision_checks"`
}

// ExportPlannerData snapshots the planner's current tree.
func (p *Planner) ExportPlannerData() *PlannerData {
	data := &PlannerData{Iterations: p.iterations, CollisionChecks: p.collisionChecks}

	roots := make(map[*Motion]bool, len(p.roots))
	for _, r := range p.roots {
		roots[r] = true
	}

	for _, m := range p.allMotions() {
		data.Vertices = append(data.Vertices, Vertex{
			ID:    m.id,
			State: append([]float64(nil), m.state...),
			Cost:  m.cost,
			Start: roots[m],
			Goal:  m == p.lastGoal,
		})
		if m.parent != nil {
			data.Edges = append(data.Edges, Edge{From: m.parent.id, To: m.id})
		}
	}
	return data
}

// JSON renders the snapshot as indented JSON.
func (d *PlannerData) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
