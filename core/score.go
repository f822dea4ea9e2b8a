package core

import (
	"math"
	"slices"
	"strconv"

	"github.com/huangsam/leaderboard/schema"
)

// Score class boundaries for the percentage modes, inclusive on both ends.
const (
	yellowLow  = 40.0
	yellowHigh = 75.0
)

// Score class boundaries for rank mode.
const (
	greenMaxRank  = 3
	yellowMaxRank = 10
)

// roundHalfUp rounds to the nearest integer with halves toward +Inf, so
// -2.5 becomes -2 and 2.5 becomes 3.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// round2 rounds to two decimals, halves toward +Inf.
func round2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}

// roundPercent expresses value as a percentage of denom with one decimal.
func roundPercent(value, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return roundHalfUp(value/denom*1000) / 10
}

// Engine holds the outputs of one full scoring pass over a matrix and a
// normalization relation. It is recomputed whenever either input or the mode
// changes and is never updated in place.
type Engine struct {
	matrix *Matrix
	norm   *Normalization
	mode   schema.ScoringMode
	values map[string]map[string]float64 // feature -> project -> normalized value
	stats  map[string]schema.FeatureStats
	ranks  map[string][]string
}

// ComputeScores runs a full pass: normalized values, lead and mean per feature,
// and project ranks per feature.
func ComputeScores(m *Matrix, n *Normalization, mode schema.ScoringMode) *Engine {
	if _, ok := schema.ValidScoringModes[mode]; !ok {
		mode = schema.LeadMode
	}
	e := &Engine{
		matrix: m,
		norm:   n,
		mode:   mode,
		values: make(map[string]map[string]float64),
		stats:  make(map[string]schema.FeatureStats),
		ranks:  make(map[string][]string),
	}
	projects := m.Projects()
	for _, f := range m.Features() {
		col := make(map[string]float64, len(projects))
		st := schema.FeatureStats{Feature: f}
		st.Normalizer, _ = n.Divisor(f)
		sum := 0.0
		for i, p := range projects {
			v := NormalizedValue(m, n, f, p)
			col[p] = v
			sum += v
			if i == 0 || v > st.LeadValue {
				st.LeadValue = v
				st.LeadProject = p
			}
		}
		if len(projects) > 0 {
			st.MeanValue = round2(sum / float64(len(projects)))
		}
		ranked := slices.Clone(projects)
		slices.SortStableFunc(ranked, func(a, b string) int {
			switch {
			case col[a] > col[b]:
				return -1
			case col[a] < col[b]:
				return 1
			default:
				return 0
			}
		})
		e.values[f] = col
		e.stats[f] = st
		e.ranks[f] = ranked
	}
	return e
}

// Mode returns the scoring mode of this pass.
func (e *Engine) Mode() schema.ScoringMode {
	return e.mode
}

// Stats returns lead and mean values of a feature.
func (e *Engine) Stats(feature string) schema.FeatureStats {
	if st, ok := e.stats[feature]; ok {
		return st
	}
	return schema.FeatureStats{Feature: feature}
}

// AllStats returns the stats of every feature in matrix order.
func (e *Engine) AllStats() []schema.FeatureStats {
	out := make([]schema.FeatureStats, 0, len(e.stats))
	for _, f := range e.matrix.Features() {
		out = append(out, e.stats[f])
	}
	return out
}

// FeatureValue returns the normalized value of a feature in a project.
func (e *Engine) FeatureValue(feature, project string) float64 {
	if col, ok := e.values[feature]; ok {
		if v, ok := col[project]; ok {
			return v
		}
	}
	return NormalizedValue(e.matrix, e.norm, feature, project)
}

// FeatureValues returns the normalized values of a feature over all projects in load order.
func (e *Engine) FeatureValues(feature string) []float64 {
	projects := e.matrix.Projects()
	out := make([]float64, 0, len(projects))
	for _, p := range projects {
		out = append(out, e.FeatureValue(feature, p))
	}
	return out
}

// FeatureRanks returns the projects by descending value of a feature.
// Ties keep load order.
func (e *Engine) FeatureRanks(feature string) []string {
	return slices.Clone(e.ranks[feature])
}

// FeatureRank returns the 1-based rank of a project for a feature, or 0 if unknown.
func (e *Engine) FeatureRank(feature, project string) int {
	return slices.Index(e.ranks[feature], project) + 1
}

// FeatureScore returns the score of a project for a feature under the engine's mode.
func (e *Engine) FeatureScore(feature, project string) float64 {
	switch e.mode {
	case schema.RankMode:
		return float64(e.FeatureRank(feature, project))
	case schema.MeanMode:
		// Not clamped: a value above the mean scores above 100.
		return roundPercent(e.FeatureValue(feature, project), e.Stats(feature).MeanValue)
	case schema.LeadMode:
		return roundPercent(e.FeatureValue(feature, project), e.Stats(feature).LeadValue)
	default:
		return roundPercent(e.FeatureValue(feature, project), e.Stats(feature).LeadValue)
	}
}

// TotalScore returns the mean score over the given cards. Rank mode rounds
// the mean to a whole rank.
func (e *Engine) TotalScore(cards []schema.CardKey) float64 {
	if len(cards) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range cards {
		sum += e.FeatureScore(c.Feature, c.Project)
	}
	total := round2(sum / float64(len(cards)))
	if e.mode == schema.RankMode {
		return roundHalfUp(total)
	}
	return total
}

// Distribution returns box plot statistics over the feature's values.
func (e *Engine) Distribution(feature string) schema.Distribution {
	return ComputeDistribution(e.FeatureValues(feature))
}

// ScoreClass maps a score to its color band.
func ScoreClass(mode schema.ScoringMode, score float64) schema.ScoreClass {
	switch mode {
	case schema.RankMode:
		switch {
		case score <= greenMaxRank:
			return schema.GreenClass
		case score <= yellowMaxRank:
			return schema.YellowClass
		default:
			return schema.RedClass
		}
	case schema.LeadMode, schema.MeanMode:
		fallthrough
	default:
		switch {
		case score > yellowHigh:
			return schema.GreenClass
		case score >= yellowLow:
			return schema.YellowClass
		default:
			return schema.RedClass
		}
	}
}

// ScoreText formats a score for display: "#3" for ranks, "66.7%" otherwise.
func ScoreText(mode schema.ScoringMode, score float64) string {
	num := strconv.FormatFloat(score, 'f', -1, 64)
	if mode == schema.RankMode {
		return "#" + num
	}
	return num + "%"
}
