package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamAggregate_ResolvedNarrative(t *testing.T) {
	tests := []struct {
		name string
		team TeamAggregate
		want string
	}{
		{"canonical wins", TeamAggregate{AggregatedNarrative: "canonical", Narrative: "alias"}, "canonical"},
		{"alias when canonical empty", TeamAggregate{Narrative: "alias"}, "alias"},
		{"alias when canonical blank", TeamAggregate{AggregatedNarrative: "  \n", Narrative: "alias"}, "alias"},
		{"both absent", TeamAggregate{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.team.ResolvedNarrative())
		})
	}
}

func TestMindsetScore_Clamped(t *testing.T) {
	raw := MindsetScore{MindsetID: "growth", Capacity: 112.5, Friction: -4}
	c := raw.Clamped()

	assert.Equal(t, 100.0, c.Capacity)
	assert.Equal(t, 0.0, c.Friction)
	// The original value is untouched.
	assert.Equal(t, 112.5, raw.Capacity)

	inRange := MindsetScore{Capacity: 55, Friction: 30}
	assert.Equal(t, inRange, inRange.Clamped())
}

func TestTeamAggregate_Summary(t *testing.T) {
	team := TeamAggregate{TeamID: "t1", TeamName: "Team One", OrgID: "org-1", ValuesVector: "v"}
	assert.Equal(t, TeamSummary{TeamID: "t1", TeamName: "Team One", OrgID: "org-1"}, team.Summary())
}
