package schemas

import "strings"

// -- Directory Types --

// Organization is a top-level tenant grouping teams.
type Organization struct {
	OrgID   string `json:"orgId"`
	OrgName string `json:"orgName"`
}

// TeamSummary is the lightweight listing shape for a team.
type TeamSummary struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	OrgID    string `json:"orgId"`
}

// MindsetScore measures one behavioral dimension of a team. Capacity and
// Friction are percentages; producers occasionally drift outside 0-100.
type MindsetScore struct {
	MindsetID   string  `json:"mindsetId"`
	MindsetName string  `json:"mindsetName"`
	Capacity    float64 `json:"capacity"`
	Friction    float64 `json:"friction"`
}

// Clamped returns a copy with Capacity and Friction bounded to [0, 100].
// Only rendering code should use it; computations work on the raw values.
func (m MindsetScore) Clamped() MindsetScore {
	m.Capacity = clampPercent(m.Capacity)
	m.Friction = clampPercent(m.Friction)
	return m
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// TeamAggregate is the precomputed team-level summary fed into report generation.
type TeamAggregate struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	OrgID    string `json:"orgId"`
	OrgName  string `json:"orgName,omitempty"`

	ValuesVector        string `json:"valuesVector"`
	AggregatedNarrative string `json:"aggregatedNarrative"`
	// Narrative is the deprecated alias of AggregatedNarrative. It is read as a
	// fallback only; writers populate AggregatedNarrative.
	Narrative string `json:"narrative,omitempty"`

	MindsetScores []MindsetScore `json:"mindsetScores"`
}

// ResolvedNarrative returns the canonical narrative when it is non-empty,
// otherwise the deprecated alias, otherwise the empty string.
func (t TeamAggregate) ResolvedNarrative() string {
	if strings.TrimSpace(t.AggregatedNarrative) != "" {
		return t.AggregatedNarrative
	}
	return t.Narrative
}

// Summary projects the aggregate onto its listing shape.
func (t TeamAggregate) Summary() TeamSummary {
	return TeamSummary{TeamID: t.TeamID, TeamName: t.TeamName, OrgID: t.OrgID}
}
