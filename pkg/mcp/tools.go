package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pario-ai/oars/pkg/client"
	"github.com/pario-ai/oars/pkg/codec"
)

// Tool argument structs.

type fetchArgs struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type kindArgs struct {
	Kind string `json:"kind"`
}

type recentArgs struct {
	Limit int `json:"limit"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"oars_fetch":       handleFetch,
	"oars_quota":       handleQuota,
	"oars_stats":       handleStats,
	"oars_recent":      handleRecent,
	"oars_cache_stats": handleCacheStats,
}

func kindNames() []string {
	names := make([]string, len(client.ResourceKinds))
	for i, k := range client.ResourceKinds {
		names[i] = string(k)
	}
	return names
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "oars_fetch",
		Description: "Fetch one OpenAlex entity by ID and return it as JSON. Each call is charged against the request quota.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"kind", "id"},
			"properties": map[string]any{
				"kind": map[string]any{
					"type":        "string",
					"enum":        kindNames(),
					"description": "Entity collection",
				},
				"id": map[string]any{
					"type":        "string",
					"description": "OpenAlex ID or other supported identifier such as a DOI",
				},
			},
		},
	},
	{
		Name:        "oars_quota",
		Description: "Show the request quota: ceiling, used, remaining and the reset window.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "oars_stats",
		Description: "Show fetch history aggregated by kind and outcome, optionally filtered by kind.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kind": map[string]any{
					"type":        "string",
					"description": "Filter by entity kind (optional, omit for all kinds)",
				},
			},
		},
	},
	{
		Name:        "oars_recent",
		Description: "List the most recent fetches, newest first.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of fetches (optional, default 20)",
				},
			},
		},
	},
	{
		Name:        "oars_cache_stats",
		Description: "Show response cache statistics (entries, hits, misses, hit rate).",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func handleFetch(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args fetchArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.ID == "" {
		return errorResult("id is required")
	}
	kind, err := client.ParseResourceKind(args.Kind)
	if err != nil {
		return errorResult(err.Error())
	}

	entity, err := s.fetcher.FetchKind(ctx, kind, args.ID)
	switch {
	case errors.Is(err, client.ErrQuotaExceeded):
		return errorResult("Request quota exhausted; try again after the next reset.")
	case err != nil:
		return errorResult("Error fetching entity: " + err.Error())
	}

	d, err := entity.Deflate(codec.Text)
	if err != nil {
		return errorResult("Error encoding entity: " + err.Error())
	}
	text, _ := d.AsText()
	return textResult(text)
}

func handleQuota(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	st, err := s.fetcher.Quota(ctx)
	if err != nil {
		return errorResult("Error fetching quota: " + err.Error())
	}
	return textResult(formatQuota(st))
}

func handleStats(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	if s.tracker == nil {
		return textResult("Fetch history is not configured.")
	}
	var args kindArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	rows, err := s.tracker.Summary(ctx, args.Kind)
	if err != nil {
		return errorResult("Error fetching stats: " + err.Error())
	}
	return textResult(formatSummary(rows))
}

func handleRecent(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	if s.tracker == nil {
		return textResult("Fetch history is not configured.")
	}
	var args recentArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	records, err := s.tracker.Recent(ctx, args.Limit)
	if err != nil {
		return errorResult("Error fetching recent fetches: " + err.Error())
	}
	return textResult(formatRecent(records))
}

func handleCacheStats(_ context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.cache == nil {
		return textResult("Cache is not configured.")
	}
	stats, err := s.cache.Stats()
	if err != nil {
		return errorResult("Error fetching cache stats: " + err.Error())
	}
	return textResult(formatCacheStats(stats))
}
