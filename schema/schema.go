// Package schema has models, enums and records shared by all parts of leaderboard.
package schema

import (
	"fmt"
	"strings"
)

// MatrixEntry is one raw value of the value matrix, in load order.
type MatrixEntry struct {
	Project string
	Feature string
	Value   float64
}

// SourceLink describes where the value of a card was taken from.
type SourceLink struct {
	Source string `json:"source"`
	Type   string `json:"type,omitempty"`
}

// RawTables holds everything the data loader returns for one board.
// Only Entries is mandatory; the other tables may be empty.
type RawTables struct {
	Entries      []MatrixEntry                    // project -> feature -> value, flattened in document order
	Normalize    map[string]string                // feature -> normalizing feature ("" means none)
	Descriptions map[string]map[string]string     // feature -> language -> display name
	Links        map[string]map[string]SourceLink // project -> feature -> link
	Groups       map[string][]string              // feature -> related features
}

// CardKey identifies a card by its feature and project.
type CardKey struct {
	Feature string `json:"feature"`
	Project string `json:"project"`
}

// String returns the "feature@project" form used on the command line.
func (k CardKey) String() string {
	return k.Feature + "@" + k.Project
}

// ParseCardKey parses a "feature@project" identifier. The last '@' separates
// the two, so feature ids may contain '@' but project ids may not.
func ParseCardKey(s string) (CardKey, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, "@")
	if i < 0 {
		return CardKey{}, fmt.Errorf("invalid card id %q. expected feature@project", s)
	}
	feature, project := s[:i], s[i+1:]
	if feature == "" || project == "" {
		return CardKey{}, fmt.Errorf("invalid card id %q. expected feature@project", s)
	}
	return CardKey{Feature: feature, Project: project}, nil
}

// Position is the arrangement offset of a card relative to its slot.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of two positions.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the component-wise difference of two positions.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distribution holds box plot statistics over an ascending sample.
type Distribution struct {
	Sorted        []float64  `json:"sorted"`
	Quartiles     [3]float64 `json:"quartiles"`
	WhiskerBounds [2]int     `json:"whisker_bounds"` // indexes into Sorted
	Outliers      []int      `json:"outliers"`       // indexes into Sorted
}

// FeatureStats holds the per-feature aggregates of the score engine.
type FeatureStats struct {
	Feature     string  `json:"feature"`
	Normalizer  string  `json:"normalizer,omitempty"`
	LeadValue   float64 `json:"lead_value"`
	LeadProject string  `json:"lead_project"`
	MeanValue   float64 `json:"mean_value"`
}

// FeatureReport is one row of the features listing.
type FeatureReport struct {
	FeatureStats
	Title        string       `json:"title"`
	Distribution Distribution `json:"distribution"`
	Group        []string     `json:"group,omitempty"`
}

// Card is the view model of one (feature, project) cell on the board.
type Card struct {
	CardKey
	Title        string       `json:"title"`
	Normalizer   string       `json:"normalizer,omitempty"`
	RawValue     float64      `json:"raw_value"`
	Value        float64      `json:"value"`
	LeadValue    float64      `json:"lead_value"`
	LeadProject  string       `json:"lead_project"`
	MeanValue    float64      `json:"mean_value"`
	Rank         int          `json:"rank"`
	Score        float64      `json:"score"`
	ScoreText    string       `json:"score_text"`
	ScoreClass   ScoreClass   `json:"score_class"`
	Distribution Distribution `json:"distribution"`
	Highlight    int          `json:"highlight"` // index of this card's value in Distribution.Sorted
	Link         *SourceLink  `json:"link,omitempty"`
	Position
}

// BoardResult is a rendered board: the selection, its cards and the total score.
type BoardResult struct {
	SessionID     string            `json:"session_id"`
	Scope         Scope             `json:"scope"`
	Selection     string            `json:"selection,omitempty"`
	DisplayName   string            `json:"display_name"`
	Mode          ScoringMode       `json:"mode"`
	Order         SortOrder         `json:"order"`
	Total         float64           `json:"total"`
	TotalText     string            `json:"total_text"`
	TotalClass    ScoreClass        `json:"total_class"`
	Normalization map[string]string `json:"normalization"`
	Cards         []Card            `json:"cards"`
}

// DropResult describes what a completed drop did to the board.
type DropResult struct {
	Kind    DropKind            `json:"kind"`
	Dragged CardKey             `json:"dragged"`
	Target  *CardKey            `json:"target,omitempty"`
	Feature string              `json:"feature,omitempty"` // normalized feature, for normalize drops
	Divisor string              `json:"divisor,omitempty"` // new divisor, empty when cleared
	Cleared bool                `json:"cleared,omitempty"`
	Moved   map[string]Position `json:"moved,omitempty"` // card id -> new offset, for swaps and returns
	Rebuilt bool                `json:"rebuilt"`         // card set was rebuilt
}
