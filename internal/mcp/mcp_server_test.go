package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/internal/iocache"
	mcp_internal "github.com/huangsam/leaderboard/internal/mcp"
	"github.com/huangsam/leaderboard/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		DataSource: "../dataset/testdata/board",
		Scope:      schema.ProjectScope,
		Selection:  "proj2",
		Mode:       schema.LeadMode,
		Order:      schema.DefaultOrder,
		Columns:    contract.DefaultColumns,
		Language:   language.English,
	}
}

// call invokes a tool and returns its text content.
func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text, res.IsError
}

func decodeBoard(t *testing.T, text string) schema.BoardResult {
	t.Helper()
	var board schema.BoardResult
	require.NoError(t, json.Unmarshal([]byte(text), &board))
	return board
}

func TestMCPServerTools(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	for _, name := range []string{
		"get_board", "get_feature_stats", "drop_card", "set_scoring_mode",
		"set_sort_order", "select", "get_normalization", "snapshot", "reset",
	} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestMCPServerGetBoard(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	text, isErr := call(t, s, "get_board", nil)
	require.False(t, isErr, text)

	board := decodeBoard(t, text)
	assert.Equal(t, "proj2", board.Selection)
	require.Len(t, board.Cards, 4)
	assert.Equal(t, "tests", board.Cards[0].Feature)

	// The session is shared between calls
	again := decodeBoard(t, mustCall(t, s, "get_board"))
	assert.Equal(t, board.SessionID, again.SessionID)
}

func TestMCPServerOpenFailure(t *testing.T) {
	cfg := baseConfig()
	cfg.DataSource = t.TempDir()
	s := mcp_internal.NewMCPServer(cfg, nil)

	text, isErr := call(t, s, "get_board", nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "cannot open board")
}

func TestMCPServerUnencodableResult(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project_features.json"), []byte(`{"p": {"a": 1e308, "b": 1e-308}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project_features_normalize.json"), []byte(`{"a": "b"}`), 0o644))

	cfg := baseConfig()
	cfg.DataSource = dir
	cfg.Selection = ""
	s := mcp_internal.NewMCPServer(cfg, nil)

	// a / b * 100 overflows, which JSON cannot carry
	text, isErr := call(t, s, "get_board", nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "cannot encode result")
}

func TestMCPServerDropCard(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	t.Run("invalid card id", func(t *testing.T) {
		text, isErr := call(t, s, "drop_card", map[string]any{"dragged": "tests"})
		assert.True(t, isErr)
		assert.Contains(t, text, "expected feature@project")
	})

	t.Run("card not on board", func(t *testing.T) {
		text, isErr := call(t, s, "drop_card", map[string]any{"dragged": "tests@alpha"})
		assert.True(t, isErr)
		assert.Contains(t, text, "not on the board")
	})

	t.Run("normalize", func(t *testing.T) {
		text, isErr := call(t, s, "drop_card", map[string]any{"dragged": "tests@proj2", "target": "stories@proj2"})
		require.False(t, isErr, text)

		var got struct {
			Drop  schema.DropResult  `json:"drop"`
			Board schema.BoardResult `json:"board"`
		}
		require.NoError(t, json.Unmarshal([]byte(text), &got))
		assert.Equal(t, schema.DropNormalize, got.Drop.Kind)
		assert.Equal(t, "stories", got.Drop.Feature)
		assert.Equal(t, "tests", got.Drop.Divisor)
		assert.Equal(t, "tests", got.Board.Normalization["stories"])

		norm, _ := call(t, s, "get_normalization", nil)
		assert.JSONEq(t, `{"bugs":"lines","stories":"tests"}`, norm)
	})

	t.Run("clear", func(t *testing.T) {
		text, isErr := call(t, s, "drop_card", map[string]any{"dragged": "lines@proj2", "target": "bugs@proj2"})
		require.False(t, isErr, text)

		norm, _ := call(t, s, "get_normalization", nil)
		assert.JSONEq(t, `{"stories":"tests"}`, norm)
	})
}

func TestMCPServerModeAndOrder(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	text, isErr := call(t, s, "set_scoring_mode", map[string]any{"mode": "bogus"})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid scoring mode")

	text, isErr = call(t, s, "set_scoring_mode", map[string]any{"mode": "rank"})
	require.False(t, isErr, text)
	board := decodeBoard(t, text)
	assert.Equal(t, schema.RankMode, board.Mode)
	assert.Equal(t, "#", board.TotalText[:1])

	text, isErr = call(t, s, "set_sort_order", map[string]any{"order": "feature"})
	require.False(t, isErr, text)
	board = decodeBoard(t, text)
	assert.Equal(t, schema.FeatureOrder, board.Order)
	assert.Equal(t, schema.RankMode, board.Mode, "Mode should survive a sort change")
}

func TestMCPServerSelect(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	tests := []struct {
		name      string
		args      map[string]any
		wantErr   string
		wantScope schema.Scope
		wantCards int
	}{
		{name: "project", args: map[string]any{"name": "alpha"}, wantScope: schema.ProjectScope, wantCards: 4},
		{name: "feature by name", args: map[string]any{"name": "bugs"}, wantScope: schema.FeatureScope, wantCards: 3},
		{name: "feature scope", args: map[string]any{"name": "tests", "scope": "feature"}, wantScope: schema.FeatureScope, wantCards: 3},
		{name: "all", args: map[string]any{"scope": "all"}, wantScope: schema.AllScope, wantCards: 12},
		{name: "unknown", args: map[string]any{"name": "nope"}, wantErr: "unknown project or feature"},
		{name: "unknown feature", args: map[string]any{"name": "proj2", "scope": "feature"}, wantErr: "unknown feature"},
		{name: "bad scope", args: map[string]any{"name": "proj2", "scope": "galaxy"}, wantErr: "invalid scope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, s, "select", tt.args)
			if tt.wantErr != "" {
				assert.True(t, isErr)
				assert.Contains(t, text, tt.wantErr)
				return
			}
			require.False(t, isErr, text)
			board := decodeBoard(t, text)
			assert.Equal(t, tt.wantScope, board.Scope)
			assert.Len(t, board.Cards, tt.wantCards)
		})
	}
}

func TestMCPServerFeatureStats(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	text, isErr := call(t, s, "get_feature_stats", nil)
	require.False(t, isErr, text)
	var reports []schema.FeatureReport
	require.NoError(t, json.Unmarshal([]byte(text), &reports))
	assert.Len(t, reports, 4)

	text, isErr = call(t, s, "get_feature_stats", map[string]any{"feature": "tests"})
	require.False(t, isErr, text)
	var report schema.FeatureReport
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Equal(t, "alpha", report.LeadProject)
	assert.Equal(t, 60.0, report.LeadValue)

	text, isErr = call(t, s, "get_feature_stats", map[string]any{"feature": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "unknown feature")
}

func TestMCPServerSnapshot(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := mcp_internal.NewMCPServer(baseConfig(), nil)
		text, isErr := call(t, s, "snapshot", nil)
		assert.True(t, isErr)
		assert.Contains(t, text, "snapshot backend is disabled")
	})

	t.Run("recorded", func(t *testing.T) {
		// Create mock snapshot store
		store := &iocache.MockSnapshotStore{}
		store.On("RecordSnapshot", mock.MatchedBy(func(run schema.SnapshotRun) bool {
			return run.Selection == "proj2" && run.Mode == schema.LeadMode
		}), mock.AnythingOfType("[]schema.Card")).Return(int64(7), nil)

		mgr := &iocache.MockCacheManager{}
		mgr.On("GetSourceStore").Return(nil)
		mgr.On("GetSnapshotStore").Return(store)

		s := mcp_internal.NewMCPServer(baseConfig(), mgr)
		text, isErr := call(t, s, "snapshot", nil)
		require.False(t, isErr, text)
		assert.JSONEq(t, `{"snapshot_id":7,"session_id":"`+decodeBoard(t, mustCall(t, s, "get_board")).SessionID+`","cards":4}`, text)
		store.AssertExpectations(t)
	})
}

func TestMCPServerReset(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	first := decodeBoard(t, mustCall(t, s, "get_board"))
	_, isErr := call(t, s, "set_scoring_mode", map[string]any{"mode": "mean"})
	require.False(t, isErr)

	text, isErr := call(t, s, "reset", nil)
	require.False(t, isErr, text)
	board := decodeBoard(t, text)
	assert.NotEqual(t, first.SessionID, board.SessionID)
	assert.Equal(t, schema.LeadMode, board.Mode)
}

func mustCall(t *testing.T, s *server.MCPServer, name string) string {
	t.Helper()
	text, isErr := call(t, s, name, nil)
	require.False(t, isErr, text)
	return text
}
