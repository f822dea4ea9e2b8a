// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/parquet"
	"github.com/huangsam/leaderboard/schema"
)

// PrintBoard outputs a board and the drops replayed against it, dispatching
// based on the output format configured.
func PrintBoard(result schema.BoardResult, drops []schema.DropResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONBoard(w, result, drops)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBoard(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, func(path string) error {
			return parquet.WriteBoardParquet(result, path)
		}); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBoardTable(w, result, drops, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// PrintFeatures outputs the feature listing using the configured output format.
func PrintFeatures(reports []schema.FeatureReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONFeatures(w, reports)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVFeatures(w, reports, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquet(cfg.OutputFile, func(path string) error {
			return parquet.WriteFeaturesParquet(reports, path)
		}); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFeaturesTable(w, reports, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}
