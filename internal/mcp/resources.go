// ABOUTME: MCP resource implementations for the workout log.
// ABOUTME: Provides fitlog://recent, fitlog://exercises and fitlog://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const recentResourceLimit = 10

func (s *Server) registerResources() {
	// fitlog://recent - newest records
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitlog://recent",
		Name:        "Recent Records",
		Description: "Last 10 logged records",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitlog://exercises",
		Name:        "Exercises",
		Description: "All exercises ordered by name",
		MIMEType:    "application/json",
	}, s.handleExercisesResource)

	// fitlog://summary - per-exercise counts and latest record
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitlog://summary",
		Name:        "Training Summary",
		Description: "Record counts and latest entry per exercise",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.repo.Page(ctx, 0, recentResourceLimit, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	out := make([]recordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toOutput(r))
	}
	return jsonResource("fitlog://recent", map[string]interface{}{
		"records": out,
	})
}

func (s *Server) handleExercisesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	exercises, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return jsonResource("fitlog://exercises", map[string]interface{}{
		"exercises": exercises,
	})
}

type exerciseSummary struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	Records int           `json:"records"`
	Latest  *recordOutput `json:"latest,omitempty"`
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	exercises, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	total, err := s.repo.TotalCount(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	summaries := make([]exerciseSummary, 0, len(exercises))
	for _, e := range exercises {
		filter := models.NewFilter(e.ID)
		n, err := s.repo.TotalCount(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count records: %w", err)
		}
		summary := exerciseSummary{ID: e.ID, Name: e.Name, Records: n}
		latest, err := s.repo.Page(ctx, 0, 1, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list records: %w", err)
		}
		if len(latest) > 0 {
			out := toOutput(latest[0])
			summary.Latest = &out
		}
		summaries = append(summaries, summary)
	}

	groupCount := 0
	if frontier, err := s.repo.FrontierRecord(ctx); err == nil {
		groupCount = int(frontier.GroupIndex) + 1
	}

	return jsonResource("fitlog://summary", map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"exercises":    summaries,
		"summary": map[string]int{
			"total_records":   total,
			"total_exercises": len(exercises),
			"groups":          groupCount,
		},
	})
}
