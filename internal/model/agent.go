// Package model implements a Schelling segregation model with per-agent
// homophily thresholds and a perceived-similarity mechanic: agents earn a
// partial similarity credit from dissimilar neighbors, weighted by a global
// preference parameter, and relocate when their combined score falls below
// their personal threshold.
package model

// AgentType is the binary category an agent belongs to.
type AgentType uint8

const (
	Majority AgentType = 0
	Minority AgentType = 1
)

// Agent is one cell occupant. Type and Homophily are fixed at creation;
// Similar and AcceptedDissimilar are recomputed from scratch every tick.
type Agent struct {
	ID        uint64    `json:"id"`
	Type      AgentType `json:"type"`
	Homophily float64   `json:"homophily"`

	Similar            int     `json:"similar"`
	AcceptedDissimilar float64 `json:"accepted_dissimilar"`
}

// PerceivedSimilar is the combined similarity score, reported alongside the
// raw neighbor count.
func (a *Agent) PerceivedSimilar() float64 {
	return float64(a.Similar) + a.AcceptedDissimilar
}

// Decide recomputes the agent's satisfaction state from its current occupied
// neighbors and reports whether it is satisfied where it stands.
//
// Each same-type neighbor counts fully; each dissimilar neighbor grants a
// credit of preference × (1/homophily). The credit is inversely proportional
// to the agent's own threshold, so highly tolerant agents gain outsized
// credit per dissimilar neighbor — an intrinsic property of the model.
func (a *Agent) Decide(neighbors []*Agent, preference float64) bool {
	a.Similar = 0
	a.AcceptedDissimilar = 0

	for _, n := range neighbors {
		if n.Type == a.Type {
			a.Similar++
		} else {
			a.AcceptedDissimilar += preference * (1 / a.Homophily)
		}
	}

	return a.PerceivedSimilar() >= a.Homophily
}
