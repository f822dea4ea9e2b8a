package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/parquet"
)

// ExecuteSnapshotExport writes every recorded snapshot to two Parquet files
// next to outputFile: <outputFile>.snapshot_runs.parquet and
// <outputFile>.card_scores.parquet.
func ExecuteSnapshotExport(w io.Writer, store contract.SnapshotStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("snapshot store is not configured. Set --snapshot-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get snapshot status: %w", err)
	}
	if status.TotalSnapshots == 0 {
		return errors.New("no snapshot data found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total snapshots: %d\n", status.TotalSnapshots)
	_, _ = fmt.Fprintf(w, "Total cards: %d\n", status.TotalCards)

	runs, err := store.GetAllSnapshotRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshot runs: %w", err)
	}
	cards, err := store.GetAllCardScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve card scores: %w", err)
	}

	runsFile := outputFile + ".snapshot_runs.parquet"
	if err := parquet.WriteSnapshotRunsParquet(parquet.ConvertSnapshotRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write snapshot runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d snapshot runs to: %s\n", len(runs), runsFile)

	cardsFile := outputFile + ".card_scores.parquet"
	if err := parquet.WriteCardScoresParquet(parquet.ConvertCardScoreRecords(cards), cardsFile); err != nil {
		return fmt.Errorf("failed to write card scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d card scores to: %s\n", len(cards), cardsFile)
	return nil
}
