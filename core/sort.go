package core

import (
	"cmp"
	"slices"
	"strings"

	"github.com/huangsam/leaderboard/schema"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortCards reorders cards in place. Every order is stable, so cards that
// compare equal keep their current relative position.
func (s *Session) sortCards(cards []schema.CardKey, order schema.SortOrder) {
	switch order {
	case schema.ProjectOrder:
		s.sortByProject(cards)
	case schema.FeatureOrder:
		s.sortByFeatureName(cards)
	case schema.GroupOrder:
		slices.SortStableFunc(cards, func(a, b schema.CardKey) int {
			ga, gb := s.data.Groups[a.Feature], s.data.Groups[b.Feature]
			if c := cmp.Compare(len(ga), len(gb)); c != 0 {
				return c
			}
			return strings.Compare(strings.Join(ga, ","), strings.Join(gb, ","))
		})
	case schema.ScoreOrder:
		best := func(a, b float64) int { return cmp.Compare(b, a) }
		if s.mode == schema.RankMode {
			best = cmp.Compare[float64]
		}
		slices.SortStableFunc(cards, func(a, b schema.CardKey) int {
			return best(s.engine.FeatureScore(a.Feature, a.Project), s.engine.FeatureScore(b.Feature, b.Project))
		})
	case schema.DefaultOrder:
		s.sortDefault(cards)
	default:
		s.sortDefault(cards)
	}
}

func (s *Session) sortByProject(cards []schema.CardKey) {
	rank := s.projectRank()
	slices.SortStableFunc(cards, func(a, b schema.CardKey) int {
		return cmp.Compare(rank[a.Project], rank[b.Project])
	})
}

func (s *Session) sortByFeatureName(cards []schema.CardKey) {
	c := collate.New(s.language(), collate.Numeric, collate.IgnoreCase)
	slices.SortStableFunc(cards, func(a, b schema.CardKey) int {
		return c.CompareString(s.featureName(a.Feature), s.featureName(b.Feature))
	})
}

// sortDefault restores the load order of features within each project, with
// projects in natural order.
func (s *Session) sortDefault(cards []schema.CardKey) {
	rank := s.projectRank()
	m := s.data.Matrix
	slices.SortStableFunc(cards, func(a, b schema.CardKey) int {
		if s.scope != schema.ProjectScope {
			if c := cmp.Compare(rank[a.Project], rank[b.Project]); c != 0 {
				return c
			}
		}
		return cmp.Compare(m.FeatureIndex(a.Project, a.Feature), m.FeatureIndex(b.Project, b.Feature))
	})
}

func (s *Session) projectRank() map[string]int {
	rank := make(map[string]int)
	for i, p := range s.data.Matrix.SortedProjects() {
		rank[p] = i
	}
	return rank
}

func (s *Session) language() language.Tag {
	if s.labels == nil {
		return language.Und
	}
	return s.labels.Language()
}
