// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Leaderboard MCP server without starting it.
// All tools share one board session, opened on first use.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Leaderboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	modes := schema.ScoringModeStrings()
	orders := schema.SortOrderStrings()

	// --- 1. Tool: get_board ---
	s.AddTool(mcp.NewTool("get_board",
		mcp.WithDescription("Return the cards of the current board with their values, scores and the total score."),
	), h.handleGetBoard)

	// --- 2. Tool: get_feature_stats ---
	s.AddTool(mcp.NewTool("get_feature_stats",
		mcp.WithDescription("Return lead, mean and box plot statistics per feature under the current normalization."),
		mcp.WithString("feature", mcp.Description("Only return this feature.")),
	), h.handleGetFeatureStats)

	// --- 3. Tool: drop_card ---
	s.AddTool(mcp.NewTool("drop_card",
		mcp.WithDescription("Drop one card on another. Dropping on a card of another feature normalizes the target feature; dropping on a card of the same feature swaps them."),
		mcp.WithString("dragged", mcp.Description("Card being dropped, as feature@project."), mcp.Required()),
		mcp.WithString("target", mcp.Description("Card under the drop, as feature@project. Omit for empty space.")),
	), h.handleDropCard)

	// --- 4. Tool: set_scoring_mode ---
	s.AddTool(mcp.NewTool("set_scoring_mode",
		mcp.WithDescription("Change how card scores are computed."),
		mcp.WithString("mode", mcp.Description("Scoring mode (lead, mean, rank)."), mcp.Enum(modes...), mcp.Required()),
	), h.handleSetScoringMode)

	// --- 5. Tool: set_sort_order ---
	s.AddTool(mcp.NewTool("set_sort_order",
		mcp.WithDescription("Reorder the visible cards."),
		mcp.WithString("order", mcp.Description("Sort order (project, feature, group, score, default)."), mcp.Enum(orders...), mcp.Required()),
	), h.handleSetSortOrder)

	// --- 6. Tool: select ---
	s.AddTool(mcp.NewTool("select",
		mcp.WithDescription("Show the features of one project, one feature across all projects, or everything."),
		mcp.WithString("name", mcp.Description("Project or feature name. A name that is not a project is tried as a feature.")),
		mcp.WithString("scope", mcp.Description("Selection scope (project, feature, all). Defaults to 'project'."), mcp.Enum(string(schema.ProjectScope), string(schema.FeatureScope), string(schema.AllScope))),
	), h.handleSelect)

	// --- 7. Tool: get_normalization ---
	s.AddTool(mcp.NewTool("get_normalization",
		mcp.WithDescription("Return the current divisor of every normalized feature."),
	), h.handleGetNormalization)

	// --- 8. Tool: snapshot ---
	s.AddTool(mcp.NewTool("snapshot",
		mcp.WithDescription("Record the current board in the snapshot store."),
	), h.handleSnapshot)

	// --- 9. Tool: reset ---
	s.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Reload the tables and start a new session with the configured defaults."),
	), h.handleReset)

	return s
}

// StartMCPServer starts the Leaderboard MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
