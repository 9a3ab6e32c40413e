package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wrenfold/creatorscope/analytics"
	"github.com/wrenfold/creatorscope/store"
)

// RegisterMCP registers the analytics surface as MCP tools, so an agent
// can track creators and pull reports over the same service the HTTP
// API uses.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerTrackTool(srv)
	s.registerListTool(srv)
	s.registerStatsTool(srv)
	s.registerPatternsTool(srv)
	s.registerTopVideosTool(srv)
	s.registerCompareTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	sc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sc["required"] = required
	}
	return sc
}

// registerTool wraps an endpoint as an MCP tool handler: decode the
// arguments, run, marshal the result as JSON text. Endpoint errors are
// returned as tool errors, never as protocol failures.
func registerTool(srv *mcp.Server, tool *mcp.Tool, endpoint func(ctx context.Context, args json.RawMessage) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := endpoint(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- track ---

type trackToolReq struct {
	Username string `json:"username"`
	Niche    string `json:"niche"`
}

func (s *Service) registerTrackTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "creatorscope_track",
		Description: "Start tracking a TikTok creator by username and scrape their recent videos.",
		InputSchema: inputSchema(map[string]any{
			"username": map[string]any{"type": "string", "description": "TikTok username, with or without leading @"},
			"niche":    map[string]any{"type": "string", "description": "Optional content niche label"},
		}, []string{"username"}),
	}
	registerTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		var r trackToolReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		handle := normalizeHandle(r.Username)
		if !store.ValidHandle(handle) {
			return nil, fmt.Errorf("invalid username %q", r.Username)
		}
		creator := &store.Creator{Handle: handle, Niche: r.Niche}
		if err := s.store.InsertCreator(ctx, creator); err != nil {
			return nil, err
		}
		outcome := s.scrapeAndStore(ctx, creator)
		return map[string]any{
			"id":             creator.ID,
			"username":       handle,
			"videos_scraped": outcome.Upserted,
			"demo_data":      outcome.DemoData,
		}, nil
	})
}

// --- list ---

func (s *Service) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "creatorscope_list_creators",
		Description: "List all tracked creators with their ids and follower counts.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	registerTool(srv, tool, func(ctx context.Context, _ json.RawMessage) (any, error) {
		creators, err := s.store.ListCreators(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"creators": creators}, nil
	})
}

// --- per-creator reports ---

type creatorToolReq struct {
	CreatorID string `json:"creator_id"`
}

func decodeCreatorID(args json.RawMessage) (string, error) {
	var r creatorToolReq
	if err := json.Unmarshal(args, &r); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if r.CreatorID == "" {
		return "", errors.New("creator_id is required")
	}
	return r.CreatorID, nil
}

func creatorIDSchema() map[string]any {
	return inputSchema(map[string]any{
		"creator_id": map[string]any{"type": "string", "description": "Creator id as returned by creatorscope_list_creators"},
	}, []string{"creator_id"})
}

func (s *Service) registerStatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "creatorscope_stats",
		Description: "Engagement statistics for one tracked creator: totals, average engagement rate, date range.",
		InputSchema: creatorIDSchema(),
	}
	registerTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		id, err := decodeCreatorID(args)
		if err != nil {
			return nil, err
		}
		snap, err := s.store.CreatorSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		return analytics.Summarize(snap.Creator, snap.Videos), nil
	})
}

func (s *Service) registerPatternsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "creatorscope_patterns",
		Description: "Posting-pattern report for one tracked creator: best hours, best weekdays, posting frequency.",
		InputSchema: creatorIDSchema(),
	}
	registerTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		id, err := decodeCreatorID(args)
		if err != nil {
			return nil, err
		}
		snap, err := s.store.CreatorSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		return analytics.Patterns(snap.Videos), nil
	})
}

type topVideosToolReq struct {
	CreatorID string `json:"creator_id"`
	Limit     int    `json:"limit"`
}

func (s *Service) registerTopVideosTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "creatorscope_top_videos",
		Description: "A creator's videos ranked by engagement rate, best first.",
		InputSchema: inputSchema(map[string]any{
			"creator_id": map[string]any{"type": "string", "description": "Creator id"},
			"limit":      map[string]any{"type": "integer", "description": "Max results (default 10)"},
		}, []string{"creator_id"}),
	}
	registerTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		var r topVideosToolReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if r.CreatorID == "" {
			return nil, errors.New("creator_id is required")
		}
		limit := r.Limit
		if limit < 1 {
			limit = s.cfg.Analytics.TopVideos
		}
		snap, err := s.store.CreatorSnapshot(ctx, r.CreatorID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"username":   snap.Creator.Handle,
			"top_videos": analytics.TopVideos(snap.Videos, limit),
		}, nil
	})
}

// --- compare ---

type compareToolReq struct {
	CreatorIDs []string `json:"creator_ids"`
}

func (s *Service) registerCompareTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "creatorscope_compare",
		Description: "Compare tracked creators side by side and derive winner insights.",
		InputSchema: inputSchema(map[string]any{
			"creator_ids": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Creator ids to compare",
			},
		}, []string{"creator_ids"}),
	}
	registerTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		var r compareToolReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if len(r.CreatorIDs) == 0 {
			return nil, errors.New("creator_ids is required")
		}
		result, err := analytics.Compare(ctx, s.store, r.CreatorIDs)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"creators": result.Creators,
			"skipped":  result.Skipped,
			"insights": analytics.Insights(result),
		}, nil
	})
}
