package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const dateLayout = "2006-01-02"

// Handler turns tool calls into service calls and service results into tool results.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// GetDashboardStatsTool returns the MCP tool handler for get_dashboard_stats.
func (h *Handler) GetDashboardStatsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		dashboard, err := h.service.Dashboard(ctx)
		if err != nil {
			return errorResult("Error fetching dashboard stats: " + err.Error()), nil, nil
		}
		return jsonResult(dashboard), nil, nil
	}
}

// ListWorkoutsInput is the input for list_workouts.
type ListWorkoutsInput struct {
	Type     string `json:"type,omitempty" jsonschema:"Filter by workout type (e.g. cardio, strength)"`
	FromDate string `json:"from_date,omitempty" jsonschema:"Only workouts on or after this date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"Only workouts on or before this date (YYYY-MM-DD)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of workouts to return, newest first"`
}

// ListWorkoutsTool returns the MCP tool handler for list_workouts.
func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
		if in.Limit < 0 {
			return errorResult("Invalid limit: must not be negative"), nil, nil
		}

		filter := WorkoutFilter{
			Type:  in.Type,
			Limit: in.Limit,
		}
		if in.FromDate != "" {
			from, err := time.Parse(dateLayout, in.FromDate)
			if err != nil {
				return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
			}
			filter.From = &from
		}
		if in.ToDate != "" {
			to, err := time.Parse(dateLayout, in.ToDate)
			if err != nil {
				return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
			}
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
			filter.To = &to
		}

		workouts, err := h.service.Workouts(ctx, filter)
		if err != nil {
			return errorResult("Error listing workouts: " + err.Error()), nil, nil
		}
		return jsonResult(workouts), nil, nil
	}
}

// GetLatestHealthMetricsTool returns the MCP tool handler for get_latest_health_metrics.
func (h *Handler) GetLatestHealthMetricsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		metrics, err := h.service.LatestHealthMetrics(ctx)
		if err != nil {
			return errorResult("Error fetching health metrics: " + err.Error()), nil, nil
		}
		if metrics == nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "No health metrics logged yet."}},
			}, nil, nil
		}
		return jsonResult(metrics), nil, nil
	}
}

// ScheduledWorkoutsInput is the input for list_scheduled_workouts.
type ScheduledWorkoutsInput struct {
	IncludeCompleted bool `json:"include_completed,omitempty" jsonschema:"Also return scheduled workouts already marked completed"`
}

// ListScheduledWorkoutsTool returns the MCP tool handler for list_scheduled_workouts.
func (h *Handler) ListScheduledWorkoutsTool() func(context.Context, *mcp.CallToolRequest, ScheduledWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ScheduledWorkoutsInput) (*mcp.CallToolResult, any, error) {
		scheduled, err := h.service.ScheduledWorkouts(ctx, in.IncludeCompleted)
		if err != nil {
			return errorResult("Error listing scheduled workouts: " + err.Error()), nil, nil
		}
		return jsonResult(scheduled), nil, nil
	}
}
