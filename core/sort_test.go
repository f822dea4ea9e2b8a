package core

import (
	"testing"

	"github.com/huangsam/leaderboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortOrders(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
		order schema.SortOrder
		want  []schema.CardKey
	}{
		{
			name:  "feature name in project scope",
			setup: func(*Session) {},
			order: schema.FeatureOrder,
			want:  []schema.CardKey{key("bugs", "alpha"), key("lines", "alpha"), key("tests", "alpha")},
		},
		{
			name:  "group size then members",
			setup: func(*Session) {},
			order: schema.GroupOrder,
			want:  []schema.CardKey{key("lines", "alpha"), key("tests", "alpha"), key("bugs", "alpha")},
		},
		{
			name:  "score best first",
			setup: func(s *Session) { s.SelectFeature("bugs") },
			order: schema.ScoreOrder,
			want:  []schema.CardKey{key("bugs", "proj2"), key("bugs", "proj10"), key("bugs", "alpha")},
		},
		{
			name: "rank ascending",
			setup: func(s *Session) {
				s.SelectFeature("bugs")
				_ = s.SetScoringMode(schema.RankMode)
			},
			order: schema.ScoreOrder,
			want:  []schema.CardKey{key("bugs", "proj2"), key("bugs", "proj10"), key("bugs", "alpha")},
		},
		{
			name:  "default in feature scope",
			setup: func(s *Session) { s.SelectFeature("tests") },
			order: schema.DefaultOrder,
			want:  []schema.CardKey{key("tests", "alpha"), key("tests", "proj2"), key("tests", "proj10")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBoardSession()
			tt.setup(s)
			require.NoError(t, s.SetSortOrder(tt.order))
			assert.Equal(t, tt.want, s.Cards())
		})
	}
}

func TestSortAllScope(t *testing.T) {
	s := newBoardSession()
	s.SelectAll()

	require.NoError(t, s.SetSortOrder(schema.FeatureOrder))
	cards := s.Cards()
	assert.Equal(t, []schema.CardKey{key("bugs", "alpha"), key("bugs", "proj2"), key("bugs", "proj10")}, cards[:3])
	assert.Equal(t, key("tests", "proj10"), cards[8])

	// Project order is stable, so the feature order survives within a project.
	require.NoError(t, s.SetSortOrder(schema.ProjectOrder))
	cards = s.Cards()
	assert.Equal(t, []schema.CardKey{key("bugs", "alpha"), key("lines", "alpha"), key("tests", "alpha")}, cards[:3])
	assert.Equal(t, key("tests", "proj10"), cards[8])

	require.NoError(t, s.SetSortOrder(schema.DefaultOrder))
	cards = s.Cards()
	assert.Equal(t, []schema.CardKey{key("tests", "alpha"), key("bugs", "alpha"), key("lines", "alpha")}, cards[:3])
}

func TestSortScoreFollowsNormalization(t *testing.T) {
	s := newBoardSession()
	s.SelectFeature("bugs")
	_, err := s.Drop(key("bugs", "alpha"), keyPtr("bugs", "proj2"))
	require.NoError(t, err)

	// Clearing the divisor makes raw bug counts the score, so more bugs lead.
	_, err = s.Drop(key("lines", "alpha"), nil)
	assert.Error(t, err, "lines is not on a bugs board")

	s.SelectProject("alpha")
	_, err = s.Drop(key("lines", "alpha"), keyPtr("bugs", "alpha"))
	require.NoError(t, err)
	s.SelectFeature("bugs")
	require.NoError(t, s.SetSortOrder(schema.ScoreOrder))
	assert.Equal(t, []schema.CardKey{key("bugs", "proj10"), key("bugs", "alpha"), key("bugs", "proj2")}, s.Cards())
}
