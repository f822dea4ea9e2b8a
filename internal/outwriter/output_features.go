package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/locale"
	"github.com/huangsam/leaderboard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// featuresFixedWidth is the width taken by every features column except the title.
const featuresFixedWidth = 90

// writeFeaturesTable generates and writes the human-readable feature listing.
func writeFeaturesTable(writer io.Writer, reports []schema.FeatureReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	loc := locale.New(cfg.Language, nil)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{
		loc.Sprintf(locale.MsgFeature),
		loc.Sprintf(locale.MsgDivisor),
		loc.Sprintf(locale.MsgLead),
		loc.Sprintf(locale.MsgLeadBy),
		loc.Sprintf(locale.MsgMean),
		loc.Sprintf(locale.MsgSpread),
		loc.Sprintf(locale.MsgOutliers),
	})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := GetMaxTableTitleWidth(cfg, featuresFixedWidth)
	data := make([][]string, 0, len(reports))
	for _, r := range reports {
		data = append(data, []string{
			contract.TruncateText(r.Title, titleWidth),
			r.Normalizer,
			fmtFloat(r.LeadValue),
			r.LeadProject,
			fmtFloat(r.MeanValue),
			formatSpread(r.Distribution, fmtFloat),
			fmt.Sprintf(intFmt, len(r.Distribution.Outliers)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Listed %d features in %v\n", len(reports), duration); err != nil {
		return err
	}
	return nil
}

// formatSpread renders the quartiles of a distribution as "q1 / median / q3".
func formatSpread(d schema.Distribution, fmtFloat func(float64) string) string {
	if len(d.Sorted) == 0 {
		return "-"
	}
	return fmt.Sprintf("%s / %s / %s", fmtFloat(d.Quartiles[0]), fmtFloat(d.Quartiles[1]), fmtFloat(d.Quartiles[2]))
}

// writeCSVFeatures writes the feature listing in CSV format.
func writeCSVFeatures(w io.Writer, reports []schema.FeatureReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"feature",
		"title",
		"normalizer",
		"lead_value",
		"lead_project",
		"mean_value",
		"q1",
		"median",
		"q3",
		"samples",
		"outliers",
		"group",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range reports {
			q := r.Distribution.Quartiles
			rec := []string{
				r.Feature,
				r.Title,
				r.Normalizer,
				fmtFloat(r.LeadValue),
				r.LeadProject,
				fmtFloat(r.MeanValue),
				fmtFloat(q[0]),
				fmtFloat(q[1]),
				fmtFloat(q[2]),
				fmt.Sprintf(intFmt, len(r.Distribution.Sorted)),
				fmt.Sprintf(intFmt, len(r.Distribution.Outliers)),
				strings.Join(r.Group, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeJSONFeatures writes the feature listing as a JSON array.
func writeJSONFeatures(w io.Writer, reports []schema.FeatureReport) error {
	if reports == nil {
		reports = []schema.FeatureReport{}
	}
	return writeJSON(w, reports)
}
