// Package core has the score engine, the drag coordinator and the session
// that ties them to a selection of cards.
package core

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/dataset"
	"github.com/huangsam/leaderboard/internal/locale"
	"github.com/huangsam/leaderboard/internal/outwriter"
	"github.com/huangsam/leaderboard/schema"
)

// Slot size of the grid layout used by the CLI.
const (
	CardWidth  = 240
	CardHeight = 160
)

// maxListedMissing caps the cells named in the missing value warning.
const maxListedMissing = 5

// ExecutorFunc defines the function signature of the command entry points.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteBoard builds the board described by cfg, replays the scripted drops,
// records a snapshot when a snapshot store is configured and prints the result.
func ExecuteBoard(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, drops, err := GetBoardResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if mgr != nil && mgr.GetSnapshotStore() != nil {
		id, err := RecordSnapshot(mgr.GetSnapshotStore(), result)
		if err != nil {
			contract.LogWarn("cannot record snapshot", err)
		} else if id > 0 {
			logProgress(ctx, cfg, "📸", fmt.Sprintf("Recorded snapshot %d", id))
		}
	}
	return outwriter.PrintBoard(result, drops, cfg, time.Since(start))
}

// ExecuteFeatures prints the lead, mean and distribution of every feature.
func ExecuteFeatures(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	s, err := OpenSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintFeatures(s.FeatureReport(), cfg, time.Since(start))
}

// GetBoardResults opens a session, replays the scripted drops and returns the
// rendered board with one result per drop.
func GetBoardResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.BoardResult, []schema.DropResult, error) {
	s, err := OpenSession(ctx, cfg, mgr)
	if err != nil {
		return schema.BoardResult{}, nil, err
	}
	drops := make([]schema.DropResult, 0, len(cfg.Drops))
	for _, step := range cfg.Drops {
		res, err := s.Drop(step.Dragged, step.Target)
		if err != nil {
			return schema.BoardResult{}, nil, fmt.Errorf("drop %s: %w", step, err)
		}
		drops = append(drops, res)
	}
	return s.Board(), drops, nil
}

// OpenSession loads the tables of the configured data source and starts a
// session with the configured selection, scoring mode and sort order.
func OpenSession(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*Session, error) {
	var cache contract.CacheStore
	if mgr != nil {
		cache = mgr.GetSourceStore()
	}
	src := dataset.NewSource(cfg, cache)
	logProgress(ctx, cfg, "📂", fmt.Sprintf("Loading tables from %s", src.Location()))

	tables, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	data := NewDataset(tables)
	if data.Matrix.Empty() {
		return nil, fmt.Errorf("no projects found in %s", src.Location())
	}
	warnMissing(data.Matrix)
	data.Baseline = ApplyOverrides(data.Baseline, cfg.NormalizeOverrides)

	layout := GridLayout{Columns: cfg.Columns, Width: CardWidth, Height: CardHeight}
	s := NewSession(data, locale.New(cfg.Language, tables.Descriptions), layout)
	if err := applySelection(s, cfg.Scope, cfg.Selection); err != nil {
		return nil, err
	}
	if cfg.Mode != "" {
		if err := s.SetScoringMode(cfg.Mode); err != nil {
			return nil, err
		}
	}
	if cfg.Order != "" {
		if err := s.SetSortOrder(cfg.Order); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RecordSnapshot stores the rendered board in the snapshot store.
func RecordSnapshot(store contract.SnapshotStore, result schema.BoardResult) (int64, error) {
	run := schema.SnapshotRun{
		SessionID:     result.SessionID,
		RecordedAt:    time.Now(),
		Scope:         result.Scope,
		Selection:     result.Selection,
		Mode:          result.Mode,
		Order:         result.Order,
		Normalization: result.Normalization,
		TotalScore:    result.Total,
	}
	return store.RecordSnapshot(run, result.Cards)
}

// ApplyOverrides returns baseline with overrides applied. An empty divisor
// removes the baseline entry of its feature.
func ApplyOverrides(baseline, overrides map[string]string) map[string]string {
	out := maps.Clone(baseline)
	if out == nil {
		out = make(map[string]string)
	}
	for target, divisor := range overrides {
		if divisor == "" {
			delete(out, target)
			continue
		}
		out[target] = divisor
	}
	return out
}

// applySelection points the session at the configured scope.
func applySelection(s *Session, scope schema.Scope, selection string) error {
	switch scope {
	case schema.AllScope:
		s.SelectAll()
	case schema.FeatureScope:
		if !s.SelectFeature(selection) {
			return fmt.Errorf("unknown feature %q", selection)
		}
	default:
		if selection != "" && !s.SelectProject(selection) {
			return fmt.Errorf("unknown project or feature %q", selection)
		}
	}
	return nil
}

// warnMissing reports absent cells, which read as zero.
func warnMissing(m *Matrix) {
	missing := m.MissingCells()
	if len(missing) == 0 {
		return
	}
	names := make([]string, 0, maxListedMissing)
	for _, cell := range missing[:min(len(missing), maxListedMissing)] {
		names = append(names, cell.Feature+"@"+cell.Project)
	}
	if len(missing) > maxListedMissing {
		names = append(names, fmt.Sprintf("and %d more", len(missing)-maxListedMissing))
	}
	contract.LogWarn("missing values read as 0", fmt.Errorf("%d cells: %s", len(missing), strings.Join(names, ", ")))
}

func logProgress(ctx context.Context, cfg *contract.Config, emoji, msg string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	contract.LogInfo(cfg, emoji, msg)
}
