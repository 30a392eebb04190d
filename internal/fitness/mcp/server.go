package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing a user's fitness data read-only:
// dashboard stats, workouts, latest health metrics and scheduled workouts.
func NewServer(api fitnessAPI, version string) *mcp.Server {
	h := NewHandler(NewContextService(api))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitness-context",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_dashboard_stats",
		Description: "Returns the dashboard summary: current and longest workout streak, workouts in the last 7 days, total workouts, weight progress (kg, negative means lost), current and target weight.",
	}, h.GetDashboardStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workouts",
		Description: "Returns logged workouts, newest first. Optional filters: type (e.g. cardio), from_date and to_date (YYYY-MM-DD), limit.",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_latest_health_metrics",
		Description: "Returns the most recent health metrics record (weight, sleep hours and quality, water intake in ml, notes).",
	}, h.GetLatestHealthMetricsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_scheduled_workouts",
		Description: "Returns planned workouts ordered by scheduled date. Completed ones are skipped unless include_completed is true.",
	}, h.ListScheduledWorkoutsTool())

	return s
}
