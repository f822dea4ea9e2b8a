package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
)

// errParquetNeedsFile is returned when parquet output is asked for without a file.
var errParquetNeedsFile = errors.New("parquet output requires --output-file")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeParquet runs a Parquet writer against outputFile. Parquet is binary,
// so stdout is never used.
func writeParquet(outputFile string, writer func(string) error) error {
	if outputFile == "" {
		return errParquetNeedsFile
	}
	if err := writer(outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// scoreColorizer returns the function used to print score text of a class.
func scoreColorizer(cfg *contract.Config) func(schema.ScoreClass, string) string {
	if cfg.UseColors {
		return contract.GetColorLabel
	}
	return func(_ schema.ScoreClass, text string) string { return text }
}

// describeDrop returns a one-line summary of a completed drop.
func describeDrop(d schema.DropResult) string {
	switch d.Kind {
	case schema.DropNormalize:
		if d.Cleared {
			return fmt.Sprintf("Cleared divisor of %s", d.Feature)
		}
		return fmt.Sprintf("Normalized %s by %s", d.Feature, d.Divisor)
	case schema.DropSwap:
		if d.Target != nil {
			return fmt.Sprintf("Swapped %s with %s", d.Dragged, *d.Target)
		}
		return fmt.Sprintf("Moved %s", d.Dragged)
	default:
		if len(d.Moved) > 0 {
			return fmt.Sprintf("Returned %s to its slot", d.Dragged)
		}
		return fmt.Sprintf("Dropped %s with no effect", d.Dragged)
	}
}
