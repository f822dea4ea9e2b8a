package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/huangsam/leaderboard/core"
	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// errNoSnapshotStore is returned by the snapshot tool when snapshots are disabled.
var errNoSnapshotStore = errors.New("snapshot backend is disabled")

// toolHandler holds common dependencies for MCP tool handlers and the
// session they operate on.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager

	mu      sync.Mutex
	session *core.Session
}

// withSession runs fn on the shared session, opening it first if needed.
// The caller must not hold h.mu.
func (h *toolHandler) withSession(ctx context.Context, fn func(*core.Session) (any, error)) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		s, err := core.OpenSession(core.WithSuppressHeader(ctx), h.baseCfg.Clone(), h.mgr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot open board: %v", err)), nil
		}
		h.session = s
	}

	out, err := fn(h.session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetBoard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.withSession(ctx, func(s *core.Session) (any, error) {
		return s.Board(), nil
	})
}

func (h *toolHandler) handleGetFeatureStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	feature := request.GetString("feature", "")
	return h.withSession(ctx, func(s *core.Session) (any, error) {
		reports := s.FeatureReport()
		if feature == "" {
			return reports, nil
		}
		for _, r := range reports {
			if r.Feature == feature {
				return r, nil
			}
		}
		return nil, fmt.Errorf("unknown feature %q", feature)
	})
}

// dropResponse is the reply of the drop_card tool.
type dropResponse struct {
	Drop  schema.DropResult  `json:"drop"`
	Board schema.BoardResult `json:"board"`
}

func (h *toolHandler) handleDropCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dragged, err := schema.ParseCardKey(request.GetString("dragged", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var target *schema.CardKey
	if raw := request.GetString("target", ""); raw != "" {
		key, err := schema.ParseCardKey(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target = &key
	}

	return h.withSession(ctx, func(s *core.Session) (any, error) {
		res, err := s.Drop(dragged, target)
		if err != nil {
			return nil, err
		}
		return dropResponse{Drop: res, Board: s.Board()}, nil
	})
}

func (h *toolHandler) handleSetScoringMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := schema.ScoringMode(request.GetString("mode", ""))
	return h.withSession(ctx, func(s *core.Session) (any, error) {
		if err := s.SetScoringMode(mode); err != nil {
			return nil, err
		}
		return s.Board(), nil
	})
}

func (h *toolHandler) handleSetSortOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	order := schema.SortOrder(request.GetString("order", ""))
	return h.withSession(ctx, func(s *core.Session) (any, error) {
		if err := s.SetSortOrder(order); err != nil {
			return nil, err
		}
		return s.Board(), nil
	})
}

func (h *toolHandler) handleSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	scope := schema.Scope(request.GetString("scope", string(schema.ProjectScope)))

	return h.withSession(ctx, func(s *core.Session) (any, error) {
		switch scope {
		case schema.AllScope:
			s.SelectAll()
		case schema.FeatureScope:
			if !s.SelectFeature(name) {
				return nil, fmt.Errorf("unknown feature %q", name)
			}
		case schema.ProjectScope:
			if !s.Select(name) {
				return nil, fmt.Errorf("unknown project or feature %q", name)
			}
		default:
			return nil, fmt.Errorf("invalid scope '%s'. must be project, feature, all", scope)
		}
		return s.Board(), nil
	})
}

func (h *toolHandler) handleGetNormalization(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.withSession(ctx, func(s *core.Session) (any, error) {
		return s.Normalization(), nil
	})
}

// snapshotResponse is the reply of the snapshot tool.
type snapshotResponse struct {
	SnapshotID int64  `json:"snapshot_id"`
	SessionID  string `json:"session_id"`
	Cards      int    `json:"cards"`
}

func (h *toolHandler) handleSnapshot(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.withSession(ctx, func(s *core.Session) (any, error) {
		if h.mgr == nil || h.mgr.GetSnapshotStore() == nil {
			return nil, errNoSnapshotStore
		}
		board := s.Board()
		id, err := core.RecordSnapshot(h.mgr.GetSnapshotStore(), board)
		if err != nil {
			return nil, fmt.Errorf("cannot record snapshot: %w", err)
		}
		return snapshotResponse{SnapshotID: id, SessionID: board.SessionID, Cards: len(board.Cards)}, nil
	})
}

func (h *toolHandler) handleReset(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	h.session = nil
	h.mu.Unlock()
	return h.withSession(ctx, func(s *core.Session) (any, error) {
		return s.Board(), nil
	})
}
