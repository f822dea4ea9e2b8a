package core

import (
	"testing"

	"github.com/huangsam/leaderboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardProjectScope(t *testing.T) {
	s := newBoardSession()
	b := s.Board()

	assert.Equal(t, s.ID, b.SessionID)
	assert.Equal(t, schema.ProjectScope, b.Scope)
	assert.Equal(t, "alpha", b.DisplayName)
	assert.Equal(t, map[string]string{"bugs": "lines"}, b.Normalization)
	require.Len(t, b.Cards, 3)

	tests, bugs, lines := b.Cards[0], b.Cards[1], b.Cards[2]
	assert.Equal(t, "Tests", tests.Title)
	assert.Equal(t, "Bugs / Lines of code", bugs.Title)
	assert.Equal(t, "Lines of code", lines.Title)

	assert.Equal(t, 60.0, tests.RawValue)
	assert.Equal(t, 100.0, tests.Score)
	assert.Equal(t, "100%", tests.ScoreText)
	assert.Equal(t, schema.GreenClass, tests.ScoreClass)
	assert.Equal(t, 2, tests.Highlight)

	assert.Equal(t, "lines", bugs.Normalizer)
	assert.Equal(t, 6.0, bugs.RawValue)
	assert.Equal(t, 0.05, bugs.Value)
	assert.Equal(t, 0.2, bugs.LeadValue)
	assert.Equal(t, "proj2", bugs.LeadProject)
	assert.Equal(t, 25.0, bugs.Score)
	assert.Equal(t, schema.RedClass, bugs.ScoreClass)
	assert.Equal(t, 3, bugs.Rank)
	assert.Equal(t, 0, bugs.Highlight)

	assert.Equal(t, 75.0, b.Total)
	assert.Equal(t, "75%", b.TotalText)
	assert.Equal(t, schema.YellowClass, b.TotalClass)
}

func TestBoardRankMode(t *testing.T) {
	s := newBoardSession()
	require.NoError(t, s.SetScoringMode(schema.RankMode))
	b := s.Board()

	assert.Equal(t, "#1", b.Cards[0].ScoreText)
	assert.Equal(t, "#3", b.Cards[1].ScoreText)
	// (1 + 3 + 1) / 3 rounds to 2.
	assert.Equal(t, 2.0, b.Total)
	assert.Equal(t, "#2", b.TotalText)
}

func TestBoardLinks(t *testing.T) {
	s := newBoardSession()
	require.True(t, s.SelectProject("proj2"))
	b := s.Board()

	byFeature := map[string]schema.Card{}
	for _, c := range b.Cards {
		byFeature[c.Feature] = c
	}
	require.NotNil(t, byFeature["bugs"].Link)
	assert.Equal(t, "jira", byFeature["bugs"].Link.Type)
	assert.Nil(t, byFeature["lines"].Link, "blank sources are dropped")
	assert.Nil(t, byFeature["tests"].Link)
}

func TestBoardFeatureScope(t *testing.T) {
	s := newBoardSession()
	require.True(t, s.SelectFeature("bugs"))
	b := s.Board()
	assert.Equal(t, "Bugs / Lines of code", b.DisplayName)
	assert.Equal(t, "bugs", b.Selection)
	require.Len(t, b.Cards, 3)
	for _, c := range b.Cards {
		assert.Equal(t, []float64{0.05, 0.15, 0.2}, c.Distribution.Sorted)
	}
}

func TestBoardPositions(t *testing.T) {
	s := newBoardSession()
	_, err := s.Drop(key("tests", "alpha"), keyPtr("bugs", "alpha"))
	require.NoError(t, err)
	b := s.Board()
	assert.Equal(t, schema.Position{X: 100}, b.Cards[0].Position)
	assert.Equal(t, schema.Position{X: -100}, b.Cards[1].Position)
	assert.Equal(t, schema.Position{}, b.Cards[2].Position)
}

func TestFeatureReport(t *testing.T) {
	s := newBoardSession()
	reports := s.FeatureReport()
	require.Len(t, reports, 3)

	byFeature := map[string]schema.FeatureReport{}
	for _, r := range reports {
		byFeature[r.Feature] = r
	}
	bugs := byFeature["bugs"]
	assert.Equal(t, "Bugs / Lines of code", bugs.Title)
	assert.Equal(t, "proj2", bugs.LeadProject)
	assert.Equal(t, 0.13, bugs.MeanValue)
	assert.Equal(t, []string{"bugs", "tests"}, bugs.Group)
	assert.Equal(t, []float64{25, 40, 60}, byFeature["tests"].Distribution.Sorted)
}
