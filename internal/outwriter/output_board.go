package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/locale"
	"github.com/huangsam/leaderboard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// boardFixedWidth is the width taken by every board column except the title.
const boardFixedWidth = 75

// jsonBoard is the JSON document of a board run.
type jsonBoard struct {
	Board schema.BoardResult  `json:"board"`
	Drops []schema.DropResult `json:"drops"`
}

// writeBoardTable generates and writes the human-readable board.
func writeBoardTable(writer io.Writer, result schema.BoardResult, drops []schema.DropResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	loc := locale.New(cfg.Language, nil)
	paint := scoreColorizer(cfg)

	for _, d := range drops {
		if _, err := fmt.Fprintf(writer, "↳ %s\n", describeDrop(d)); err != nil {
			return err
		}
	}

	if len(result.Cards) == 0 {
		_, err := fmt.Fprintln(writer, loc.Sprintf(locale.MsgNoneShown))
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{
		"#",
		loc.Sprintf(locale.MsgProject),
		loc.Sprintf(locale.MsgFeature),
		loc.Sprintf(locale.MsgValue),
		loc.Sprintf(locale.MsgLead),
		loc.Sprintf(locale.MsgMean),
		loc.Sprintf(locale.MsgRank),
		loc.Sprintf(locale.MsgScore),
	})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := GetMaxTableTitleWidth(cfg, boardFixedWidth)
	data := make([][]string, 0, len(result.Cards))
	for i, c := range result.Cards {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			c.Project,
			contract.TruncateText(c.Title, titleWidth),
			fmtFloat(c.Value),
			fmt.Sprintf("%s (%s)", fmtFloat(c.LeadValue), c.LeadProject),
			fmtFloat(c.MeanValue),
			strconv.Itoa(c.Rank),
			paint(c.ScoreClass, c.ScoreText),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(writer, loc.Sprintf(locale.MsgTotal, paint(result.TotalClass, result.TotalText))); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(writer, loc.Sprintf(locale.MsgShowing, len(result.Cards), result.DisplayName, result.Mode, result.Order)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Board built in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVBoard writes the cards of a board in CSV format.
func writeCSVBoard(w io.Writer, result schema.BoardResult, fmtFloat func(float64) string) error {
	header := []string{
		"position",
		"project",
		"feature",
		"title",
		"normalizer",
		"raw_value",
		"value",
		"lead_value",
		"lead_project",
		"mean_value",
		"rank",
		"score",
		"score_text",
		"label",
		"mode",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, c := range result.Cards {
			rec := []string{
				strconv.Itoa(i + 1),
				c.Project,
				c.Feature,
				c.Title,
				c.Normalizer,
				fmtFloat(c.RawValue),
				fmtFloat(c.Value),
				fmtFloat(c.LeadValue),
				c.LeadProject,
				fmtFloat(c.MeanValue),
				strconv.Itoa(c.Rank),
				fmtFloat(c.Score),
				c.ScoreText,
				contract.GetPlainLabel(c.ScoreClass),
				string(result.Mode),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeJSONBoard writes the board and its drops as one JSON document.
func writeJSONBoard(w io.Writer, result schema.BoardResult, drops []schema.DropResult) error {
	if drops == nil {
		drops = []schema.DropResult{}
	}
	if result.Cards == nil {
		result.Cards = []schema.Card{}
	}
	return writeJSON(w, jsonBoard{Board: result, Drops: drops})
}
