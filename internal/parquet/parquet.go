// Package parquet exports boards and recorded snapshots to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/leaderboard/schema"
	"github.com/parquet-go/parquet-go"
)

// SnapshotRun is one recorded board header.
// This struct maps to the leaderboard_snapshot_runs database table.
type SnapshotRun struct {
	SnapshotID int64     `parquet:"snapshot_id,snappy"`
	SessionID  string    `parquet:"session_id,snappy"`
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
	Scope      string    `parquet:"scope,snappy"`

	// Selection is the project or feature shown, null for the all scope
	Selection *string `parquet:"selection,optional,snappy"`

	Mode      string `parquet:"mode,snappy"`
	SortOrder string `parquet:"sort_order,snappy"`

	// Normalization is the JSON-encoded divisor relation (nullable)
	Normalization *string `parquet:"normalization,optional,snappy"`

	TotalScore float64 `parquet:"total_score,snappy"`
	CardCount  int32   `parquet:"card_count,snappy"`
}

// CardScore is one recorded card.
// This struct maps to the leaderboard_card_scores database table.
type CardScore struct {
	SnapshotID int64  `parquet:"snapshot_id,snappy"`
	Position   int32  `parquet:"position,snappy"`
	Project    string `parquet:"project,snappy"`
	Feature    string `parquet:"feature,snappy"`

	// Normalizer is the divisor feature at record time (nullable)
	Normalizer *string `parquet:"normalizer,optional,snappy"`

	RawValue   float64 `parquet:"raw_value,snappy"`
	Value      float64 `parquet:"value,snappy"`
	Score      float64 `parquet:"score,snappy"`
	ScoreClass string  `parquet:"score_class,snappy"`
}

// BoardCard is one card of a board written with --output parquet.
type BoardCard struct {
	Position    int32   `parquet:"position,snappy"`
	Project     string  `parquet:"project,snappy"`
	Feature     string  `parquet:"feature,snappy"`
	Title       string  `parquet:"title,snappy"`
	Normalizer  *string `parquet:"normalizer,optional,snappy"`
	RawValue    float64 `parquet:"raw_value,snappy"`
	Value       float64 `parquet:"value,snappy"`
	LeadValue   float64 `parquet:"lead_value,snappy"`
	LeadProject string  `parquet:"lead_project,snappy"`
	MeanValue   float64 `parquet:"mean_value,snappy"`
	Rank        int32   `parquet:"rank,snappy"`
	Score       float64 `parquet:"score,snappy"`
	ScoreClass  string  `parquet:"score_class,snappy"`
	Mode        string  `parquet:"mode,snappy"`
}

// FeatureRow is one feature of a features listing written with --output parquet.
type FeatureRow struct {
	Feature     string  `parquet:"feature,snappy"`
	Title       string  `parquet:"title,snappy"`
	Normalizer  *string `parquet:"normalizer,optional,snappy"`
	LeadValue   float64 `parquet:"lead_value,snappy"`
	LeadProject string  `parquet:"lead_project,snappy"`
	MeanValue   float64 `parquet:"mean_value,snappy"`
	Q1          float64 `parquet:"q1,snappy"`
	Median      float64 `parquet:"median,snappy"`
	Q3          float64 `parquet:"q3,snappy"`
	Samples     int32   `parquet:"samples,snappy"`
	Outliers    int32   `parquet:"outliers,snappy"`
}

// write creates outputPath and writes rows with a schema inferred from T.
func write[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteSnapshotRunsParquet writes snapshot headers to a Parquet file.
func WriteSnapshotRunsParquet(data []SnapshotRun, outputPath string) error {
	return write(data, outputPath)
}

// WriteCardScoresParquet writes snapshot cards to a Parquet file.
func WriteCardScoresParquet(data []CardScore, outputPath string) error {
	return write(data, outputPath)
}

// WriteBoardParquet writes the cards of a board to a Parquet file.
func WriteBoardParquet(board schema.BoardResult, outputPath string) error {
	return write(ConvertBoard(board), outputPath)
}

// WriteFeaturesParquet writes a features listing to a Parquet file.
func WriteFeaturesParquet(reports []schema.FeatureReport, outputPath string) error {
	return write(ConvertFeatureReports(reports), outputPath)
}

// ConvertSnapshotRunRecords converts store rows for Parquet export.
func ConvertSnapshotRunRecords(records []schema.SnapshotRunRecord) []SnapshotRun {
	result := make([]SnapshotRun, len(records))
	for i, r := range records {
		result[i] = SnapshotRun{
			SnapshotID:    r.SnapshotID,
			SessionID:     r.SessionID,
			RecordedAt:    r.RecordedAt,
			Scope:         r.Scope,
			Selection:     r.Selection,
			Mode:          r.Mode,
			SortOrder:     r.SortOrder,
			Normalization: r.Normalization,
			TotalScore:    r.TotalScore,
			CardCount:     r.CardCount,
		}
	}
	return result
}

// ConvertCardScoreRecords converts store rows for Parquet export.
func ConvertCardScoreRecords(records []schema.CardScoreRecord) []CardScore {
	result := make([]CardScore, len(records))
	for i, r := range records {
		result[i] = CardScore{
			SnapshotID: r.SnapshotID,
			Position:   r.Position,
			Project:    r.Project,
			Feature:    r.Feature,
			Normalizer: r.Normalizer,
			RawValue:   r.RawValue,
			Value:      r.Value,
			Score:      r.Score,
			ScoreClass: r.ScoreClass,
		}
	}
	return result
}

// ConvertBoard flattens the cards of a board in display order.
func ConvertBoard(board schema.BoardResult) []BoardCard {
	result := make([]BoardCard, len(board.Cards))
	for i, c := range board.Cards {
		result[i] = BoardCard{
			Position:    int32(i),
			Project:     c.Project,
			Feature:     c.Feature,
			Title:       c.Title,
			Normalizer:  optional(c.Normalizer),
			RawValue:    c.RawValue,
			Value:       c.Value,
			LeadValue:   c.LeadValue,
			LeadProject: c.LeadProject,
			MeanValue:   c.MeanValue,
			Rank:        int32(c.Rank),
			Score:       c.Score,
			ScoreClass:  string(c.ScoreClass),
			Mode:        string(board.Mode),
		}
	}
	return result
}

// ConvertFeatureReports flattens a features listing, keeping its order.
func ConvertFeatureReports(reports []schema.FeatureReport) []FeatureRow {
	result := make([]FeatureRow, len(reports))
	for i, r := range reports {
		q := r.Distribution.Quartiles
		result[i] = FeatureRow{
			Feature:     r.Feature,
			Title:       r.Title,
			Normalizer:  optional(r.Normalizer),
			LeadValue:   r.LeadValue,
			LeadProject: r.LeadProject,
			MeanValue:   r.MeanValue,
			Q1:          q[0],
			Median:      q[1],
			Q3:          q[2],
			Samples:     int32(len(r.Distribution.Sorted)),
			Outliers:    int32(len(r.Distribution.Outliers)),
		}
	}
	return result
}

// optional maps an empty string to null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
