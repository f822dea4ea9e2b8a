package core

import (
	"slices"
	"strings"

	"github.com/huangsam/leaderboard/schema"
)

// FeatureTitle returns the display title of a feature, including its divisor.
func (s *Session) FeatureTitle(feature string) string {
	title := s.featureName(feature)
	if g, ok := s.coord.Normalization().Divisor(feature); ok {
		title += " / " + s.featureName(g)
	}
	return title
}

// Board renders the visible cards with their scores and the total score.
func (s *Session) Board() schema.BoardResult {
	e := s.engine
	dists := make(map[string]schema.Distribution)
	cards := make([]schema.Card, 0, len(s.cards))
	for _, key := range s.cards {
		d, ok := dists[key.Feature]
		if !ok {
			d = e.Distribution(key.Feature)
			dists[key.Feature] = d
		}
		cards = append(cards, s.card(key, d))
	}

	total := e.TotalScore(s.cards)
	result := schema.BoardResult{
		SessionID:     s.ID,
		Scope:         s.scope,
		Selection:     s.selection,
		Mode:          s.mode,
		Order:         s.order,
		Total:         total,
		TotalText:     ScoreText(s.mode, total),
		TotalClass:    ScoreClass(s.mode, total),
		Normalization: s.Normalization(),
		Cards:         cards,
	}
	switch {
	case s.scope == schema.ProjectScope:
		result.DisplayName = s.selection
	case len(cards) > 0:
		result.DisplayName = cards[0].Title
	}
	return result
}

func (s *Session) card(key schema.CardKey, d schema.Distribution) schema.Card {
	e := s.engine
	st := e.Stats(key.Feature)
	raw, _ := s.data.Matrix.Raw(key.Project, key.Feature)
	value := e.FeatureValue(key.Feature, key.Project)
	score := e.FeatureScore(key.Feature, key.Project)
	c := schema.Card{
		CardKey:      key,
		Title:        s.FeatureTitle(key.Feature),
		Normalizer:   st.Normalizer,
		RawValue:     raw,
		Value:        value,
		LeadValue:    st.LeadValue,
		LeadProject:  st.LeadProject,
		MeanValue:    st.MeanValue,
		Rank:         e.FeatureRank(key.Feature, key.Project),
		Score:        score,
		ScoreText:    ScoreText(s.mode, score),
		ScoreClass:   ScoreClass(s.mode, score),
		Distribution: d,
		Highlight:    slices.Index(d.Sorted, value),
		Position:     s.coord.Arrangement().Get(key),
	}
	if link, ok := s.data.Links[key.Project][key.Feature]; ok && strings.TrimSpace(link.Source) != "" {
		c.Link = &link
	}
	return c
}

// FeatureReport returns the stats and distribution of every feature.
func (s *Session) FeatureReport() []schema.FeatureReport {
	out := make([]schema.FeatureReport, 0)
	for _, st := range s.engine.AllStats() {
		out = append(out, schema.FeatureReport{
			FeatureStats: st,
			Title:        s.FeatureTitle(st.Feature),
			Distribution: s.engine.Distribution(st.Feature),
			Group:        s.data.Groups[st.Feature],
		})
	}
	return out
}
