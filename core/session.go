package core

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
)

// Dataset is the resident input of a session.
type Dataset struct {
	Matrix   *Matrix
	Baseline map[string]string
	Links    map[string]map[string]schema.SourceLink
	Groups   map[string][]string
}

// NewDataset builds a Dataset from loaded tables.
func NewDataset(t *schema.RawTables) *Dataset {
	return &Dataset{
		Matrix:   NewMatrix(t.Entries),
		Baseline: t.Normalize,
		Links:    t.Links,
		Groups:   t.Groups,
	}
}

// Layout places the card slots of a board.
type Layout interface {
	Slot(index int) schema.Position
}

// GridLayout places slots row by row in a fixed number of columns.
type GridLayout struct {
	Columns int
	Width   float64
	Height  float64
}

// Slot returns the top-left corner of the slot at index.
func (g GridLayout) Slot(index int) schema.Position {
	cols := max(g.Columns, 1)
	return schema.Position{
		X: float64(index%cols) * g.Width,
		Y: float64(index/cols) * g.Height,
	}
}

// Session is one user's view of a dataset: the selection, scoring mode, sort
// order and the coordinator that owns normalization and arrangement. Sessions
// are independent of each other and not safe for concurrent use.
type Session struct {
	ID     string
	data   *Dataset
	labels contract.Labeler
	layout Layout
	coord  *Coordinator
	engine *Engine

	mode      schema.ScoringMode
	order     schema.SortOrder
	scope     schema.Scope
	selection string
	cards     []schema.CardKey
}

// NewSession starts a session on the first project in natural order.
// labels and layout may be nil.
func NewSession(data *Dataset, labels contract.Labeler, layout Layout) *Session {
	if layout == nil {
		layout = GridLayout{Columns: 1}
	}
	s := &Session{
		ID:     uuid.NewString(),
		data:   data,
		labels: labels,
		layout: layout,
		mode:   schema.LeadMode,
		order:  schema.DefaultOrder,
	}
	s.coord = NewCoordinator(NewNormalization(data.Baseline), s.slotOf)
	s.recompute()
	if projects := data.Matrix.SortedProjects(); len(projects) > 0 {
		s.SelectProject(projects[0])
	}
	return s
}

// Mode returns the scoring mode.
func (s *Session) Mode() schema.ScoringMode { return s.mode }

// Order returns the sort order.
func (s *Session) Order() schema.SortOrder { return s.order }

// Scope returns the selection scope and the selected project or feature.
func (s *Session) Scope() (schema.Scope, string) { return s.scope, s.selection }

// Engine returns the current scoring pass.
func (s *Session) Engine() *Engine { return s.engine }

// Coordinator exposes the gesture API.
func (s *Session) Coordinator() *Coordinator { return s.coord }

// Matrix returns the value matrix.
func (s *Session) Matrix() *Matrix { return s.data.Matrix }

// Cards returns the visible cards in display order.
func (s *Session) Cards() []schema.CardKey {
	return slices.Clone(s.cards)
}

// Normalization returns a copy of the current relation.
func (s *Session) Normalization() map[string]string {
	return s.coord.Normalization().Map()
}

// Select resolves name as a project first and then as a feature.
func (s *Session) Select(name string) bool {
	return s.SelectProject(name)
}

// SelectProject shows the features of a project. Names that are not projects
// are tried as features. If a project was already shown, the card order is
// kept and only the project changes.
func (s *Session) SelectProject(project string) bool {
	if !s.data.Matrix.HasProject(project) {
		return s.SelectFeature(project)
	}
	var cards []schema.CardKey
	if s.scope == schema.ProjectScope && len(s.cards) > 0 {
		cards = make([]schema.CardKey, 0, len(s.cards))
		for _, c := range s.cards {
			cards = append(cards, schema.CardKey{Feature: c.Feature, Project: project})
		}
	} else {
		for _, f := range s.data.Matrix.ProjectFeatures(project) {
			cards = append(cards, schema.CardKey{Feature: f, Project: project})
		}
		s.scope = schema.ProjectScope
		s.sortCards(cards, s.order)
	}
	s.scope = schema.ProjectScope
	s.selection = project
	s.setCards(cards)
	return true
}

// SelectFeature shows one feature across all projects. Unknown features are ignored.
func (s *Session) SelectFeature(feature string) bool {
	if !s.data.Matrix.HasFeature(feature) {
		return false
	}
	var cards []schema.CardKey
	for _, p := range s.data.Matrix.SortedProjects() {
		cards = append(cards, schema.CardKey{Feature: feature, Project: p})
	}
	s.scope = schema.FeatureScope
	s.selection = feature
	s.order = schema.DefaultOrder
	s.setCards(cards)
	return true
}

// SelectAll shows every feature of every project.
func (s *Session) SelectAll() {
	var cards []schema.CardKey
	for _, p := range s.data.Matrix.SortedProjects() {
		for _, f := range s.data.Matrix.ProjectFeatures(p) {
			cards = append(cards, schema.CardKey{Feature: f, Project: p})
		}
	}
	s.scope = schema.AllScope
	s.selection = ""
	s.sortCards(cards, s.order)
	s.setCards(cards)
}

// SetScoringMode rescores the board. It never touches normalization or card order.
func (s *Session) SetScoringMode(mode schema.ScoringMode) error {
	if _, ok := schema.ValidScoringModes[mode]; !ok {
		return fmt.Errorf("invalid scoring mode '%s'. must be lead, mean, rank", mode)
	}
	s.mode = mode
	s.recompute()
	return nil
}

// SetSortOrder reorders the visible cards and moves every card back to its slot.
func (s *Session) SetSortOrder(order schema.SortOrder) error {
	if _, ok := schema.ValidSortOrders[order]; !ok {
		return fmt.Errorf("invalid sort order '%s'. must be project, feature, group, score, default", order)
	}
	s.order = order
	cards := slices.Clone(s.cards)
	s.sortCards(cards, order)
	s.setCards(cards)
	return nil
}

// Drop releases dragged over target (nil for empty space) in one step. Cards
// that are not on the board are treated as absent.
func (s *Session) Drop(dragged schema.CardKey, target *schema.CardKey) (schema.DropResult, error) {
	if !slices.Contains(s.cards, dragged) {
		return schema.DropResult{}, fmt.Errorf("card %s is not on the board", dragged)
	}
	if target != nil && !slices.Contains(s.cards, *target) {
		target = nil
	}
	return s.apply(s.coord.Drop(dragged, target)), nil
}

// StartDrag begins a gesture on a visible card.
func (s *Session) StartDrag(key schema.CardKey) bool {
	if !slices.Contains(s.cards, key) {
		return false
	}
	return s.coord.Start(key)
}

// MoveDrag reports what dropping over the given card would do.
func (s *Session) MoveDrag(delta schema.Position, over *schema.CardKey) Feedback {
	if over != nil && !slices.Contains(s.cards, *over) {
		over = nil
	}
	return s.coord.Move(delta, over)
}

// EndDrag finishes the gesture.
func (s *Session) EndDrag() schema.DropResult {
	return s.apply(s.coord.End())
}

// CancelDrag aborts the gesture.
func (s *Session) CancelDrag() schema.DropResult {
	return s.apply(s.coord.Cancel())
}

// apply rebuilds derived state after a finished gesture.
func (s *Session) apply(out Outcome) schema.DropResult {
	res := schema.DropResult{Kind: out.Kind, Dragged: out.Dragged, Target: out.Target}
	switch out.Kind {
	case schema.DropNormalize:
		res.Feature = out.Decision.Target
		res.Cleared = out.Decision.Action == ClearDivisor
		if !res.Cleared {
			res.Divisor = out.Decision.Divisor
		}
		res.Rebuilt = true
		s.recompute()
		s.setCards(slices.Clone(s.cards))
	default:
		if len(out.Moved) > 0 {
			res.Moved = make(map[string]schema.Position, len(out.Moved))
			for k, p := range out.Moved {
				res.Moved[k.String()] = p
			}
		}
	}
	return res
}

func (s *Session) recompute() {
	s.engine = ComputeScores(s.data.Matrix, s.coord.Normalization(), s.mode)
}

func (s *Session) setCards(cards []schema.CardKey) {
	s.cards = cards
	s.coord.Arrangement().Reset()
}

func (s *Session) slotOf(key schema.CardKey) schema.Position {
	return s.layout.Slot(slices.Index(s.cards, key))
}

func (s *Session) featureName(feature string) string {
	if s.labels == nil {
		return feature
	}
	return s.labels.FeatureName(feature)
}
