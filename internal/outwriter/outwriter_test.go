package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func sampleBoard() schema.BoardResult {
	return schema.BoardResult{
		SessionID:     "s1",
		Scope:         schema.ProjectScope,
		Selection:     "proj2",
		DisplayName:   "proj2",
		Mode:          schema.LeadMode,
		Order:         schema.DefaultOrder,
		Total:         70.85,
		TotalText:     "70.9%",
		TotalClass:    schema.YellowClass,
		Normalization: map[string]string{"bugs": "lines"},
		Cards: []schema.Card{
			{
				CardKey: schema.CardKey{Feature: "tests", Project: "proj2"}, Title: "Tests",
				RawValue: 25, Value: 25, LeadValue: 60, LeadProject: "alpha", MeanValue: 41.67,
				Rank: 3, Score: 41.7, ScoreText: "41.7%", ScoreClass: schema.YellowClass,
			},
			{
				CardKey: schema.CardKey{Feature: "bugs", Project: "proj2"}, Title: "Bugs / Lines", Normalizer: "lines",
				RawValue: 4, Value: 0.2, LeadValue: 0.2, LeadProject: "proj2", MeanValue: 0.13,
				Rank: 1, Score: 100, ScoreText: "100%", ScoreClass: schema.GreenClass,
			},
		},
	}
}

func sampleFeatures() []schema.FeatureReport {
	return []schema.FeatureReport{
		{
			FeatureStats: schema.FeatureStats{Feature: "tests", LeadValue: 60, LeadProject: "alpha", MeanValue: 41.67},
			Title:        "Tests",
			Distribution: schema.Distribution{Sorted: []float64{25, 40, 60}, Quartiles: [3]float64{25, 40, 60}},
			Group:        []string{"bugs", "tests"},
		},
		{
			FeatureStats: schema.FeatureStats{Feature: "stories", LeadValue: 35, LeadProject: "proj10", MeanValue: 18.33},
			Title:        "Story points",
		},
	}
}

func TestWriteBoardTable(t *testing.T) {
	cfg := &contract.Config{Width: 120, Language: language.English, CacheBackend: schema.NoneBackend}
	fmtFloat, _ := createFormatters(2)
	bugs := schema.CardKey{Feature: "bugs", Project: "proj2"}
	drops := []schema.DropResult{{Kind: schema.DropNormalize, Dragged: schema.CardKey{Feature: "lines", Project: "proj2"}, Target: &bugs, Feature: "bugs", Divisor: "lines"}}

	var buf bytes.Buffer
	require.NoError(t, writeBoardTable(&buf, sampleBoard(), drops, cfg, fmtFloat, time.Second))

	out := buf.String()
	assert.Contains(t, out, "↳ Normalized bugs by lines")
	assert.Contains(t, out, "Bugs / Lines")
	assert.Contains(t, out, "60.00 (alpha)")
	assert.Contains(t, out, "41.7%")
	assert.Contains(t, out, "Total score: 70.9%")
	assert.Contains(t, out, "Showing 2 cards for proj2 (mode: lead, order: default)")
	assert.Contains(t, out, "Cache backend: none")
}

func TestWriteBoardTableLocalized(t *testing.T) {
	cfg := &contract.Config{Width: 120, Language: language.Dutch}
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeBoardTable(&buf, sampleBoard(), nil, cfg, fmtFloat, time.Second))
	assert.Contains(t, buf.String(), "Totaalscore: 70.9%")

	buf.Reset()
	require.NoError(t, writeBoardTable(&buf, schema.BoardResult{}, nil, cfg, fmtFloat, time.Second))
	assert.Equal(t, "Geen kaarten om te tonen\n", buf.String())
}

func TestWriteCSVBoard(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeCSVBoard(&buf, sampleBoard(), fmtFloat))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "position", records[0][0])
	assert.Equal(t, []string{"2", "proj2", "bugs", "Bugs / Lines", "lines", "4.00", "0.20", "0.20", "proj2", "0.13", "1", "100.00", "100%", "Green", "lead"}, records[2])
}

func TestPrintBoardJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "board.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: out, Precision: 2}
	require.NoError(t, PrintBoard(sampleBoard(), nil, cfg, time.Second))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &got))
	assert.JSONEq(t, "[]", string(got["drops"]))

	var board schema.BoardResult
	require.NoError(t, json.Unmarshal(got["board"], &board))
	assert.Equal(t, sampleBoard(), board)
}

func TestPrintBoardParquet(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}
	err := PrintBoard(sampleBoard(), nil, cfg, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, errParquetNeedsFile)

	cfg.OutputFile = filepath.Join(t.TempDir(), "board.parquet")
	require.NoError(t, PrintBoard(sampleBoard(), nil, cfg, time.Second))
	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPrintBoardCSVFile(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut, OutputFile: filepath.Join(t.TempDir(), "board.csv"), Precision: 1}
	require.NoError(t, PrintBoard(sampleBoard(), nil, cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,proj2,tests,Tests,,25.0,25.0"))
}

func TestWriteFeaturesTable(t *testing.T) {
	cfg := &contract.Config{Width: 140, Language: language.English}
	fmtFloat, intFmt := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeFeaturesTable(&buf, sampleFeatures(), cfg, fmtFloat, intFmt, time.Second))

	out := buf.String()
	assert.Contains(t, out, "25.00 / 40.00 / 60.00")
	assert.Contains(t, out, "Story points")
	assert.Contains(t, out, "Listed 2 features in 1s")
}

func TestWriteCSVFeatures(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeCSVFeatures(&buf, sampleFeatures(), fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "bugs|tests", records[1][11])
	assert.Equal(t, "0", records[2][9])
}

func TestPrintFeaturesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "features.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: out}
	require.NoError(t, PrintFeatures(nil, cfg, time.Second))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	require.NoError(t, PrintFeatures(sampleFeatures(), cfg, time.Second))
	var reports []schema.FeatureReport
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "stories", reports[1].Feature)
}

func TestPrintFeaturesParquet(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: filepath.Join(t.TempDir(), "features.parquet")}
	require.NoError(t, PrintFeatures(sampleFeatures(), cfg, time.Second))
	_, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
}

func TestGetMaxTableTitleWidth(t *testing.T) {
	tests := []struct {
		width    int
		fixed    int
		expected int
	}{
		{width: 200, fixed: 75, expected: maxTitleWidth},
		{width: 100, fixed: 75, expected: 25},
		{width: 60, fixed: 75, expected: minTitleWidth},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetMaxTableTitleWidth(&contract.Config{Width: tt.width}, tt.fixed))
	}
}
