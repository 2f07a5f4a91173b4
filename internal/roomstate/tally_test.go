package roomstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTally(t *testing.T) {
	tests := []struct {
		name       string
		candidates map[string][]string
		want       []VoteCount
	}{
		{
			"empty input",
			map[string][]string{},
			[]VoteCount{},
		},
		{
			"empty voter set excluded",
			map[string][]string{
				"A": {"u1", "u2"},
				"B": {},
				"C": {"u3"},
			},
			[]VoteCount{
				{RestaurantID: "A", Count: 2},
				{RestaurantID: "C", Count: 1},
			},
		},
		{
			"sorted by restaurant id",
			map[string][]string{
				"C": {"u1"},
				"A": {"u1"},
				"B": {"u1", "u2", "u3"},
			},
			[]VoteCount{
				{RestaurantID: "A", Count: 1},
				{RestaurantID: "B", Count: 3},
				{RestaurantID: "C", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tally(tt.candidates))
		})
	}
}

func TestVotedBy(t *testing.T) {
	candidates := map[string][]string{
		"A": {"u1", "u2"},
		"B": {"u2"},
		"C": {"u1"},
		"D": {},
	}

	assert.Equal(t, []string{"A", "C"}, VotedBy(candidates, "u1"))
	assert.Equal(t, []string{"A", "B"}, VotedBy(candidates, "u2"))
	assert.Empty(t, VotedBy(candidates, "u3"))
}
