package mcp

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Ankush-patel1/Fitness/internal/fitness/client"
	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/fitness/stats"
)

// fitnessAPI is the subset of the API client the tools need.
type fitnessAPI interface {
	DashboardStats(ctx context.Context) (*stats.Dashboard, error)
	ListWorkouts(ctx context.Context) ([]ledger.Workout, error)
	LatestHealthMetrics(ctx context.Context) (*ledger.HealthMetrics, error)
	ListScheduledWorkouts(ctx context.Context) ([]ledger.ScheduledWorkout, error)
}

var _ fitnessAPI = (*client.Client)(nil)

type contextService interface {
	Dashboard(ctx context.Context) (*stats.Dashboard, error)
	Workouts(ctx context.Context, params WorkoutFilter) ([]ledger.Workout, error)
	LatestHealthMetrics(ctx context.Context) (*ledger.HealthMetrics, error)
	ScheduledWorkouts(ctx context.Context, includeCompleted bool) ([]ledger.ScheduledWorkout, error)
}

type WorkoutFilter struct {
	Type  string
	From  *time.Time
	To    *time.Time
	Limit int
}

// ContextService narrows API results down to what a tool call asked for.
type ContextService struct {
	api fitnessAPI
}

var _ contextService = (*ContextService)(nil)

func NewContextService(api fitnessAPI) *ContextService {
	return &ContextService{api: api}
}

func (s *ContextService) Dashboard(ctx context.Context) (*stats.Dashboard, error) {
	return s.api.DashboardStats(ctx)
}

// Workouts keeps the API's newest-first order.
func (s *ContextService) Workouts(ctx context.Context, params WorkoutFilter) ([]ledger.Workout, error) {
	all, err := s.api.ListWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]ledger.Workout, 0, len(all))
	for _, w := range all {
		if params.Type != "" && !strings.EqualFold(w.Type, params.Type) {
			continue
		}
		if params.From != nil && w.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && w.CreatedAt.After(*params.To) {
			continue
		}
		filtered = append(filtered, w)
		if params.Limit > 0 && len(filtered) == params.Limit {
			break
		}
	}
	return filtered, nil
}

// LatestHealthMetrics returns nil without an error when nothing was logged.
func (s *ContextService) LatestHealthMetrics(ctx context.Context) (*ledger.HealthMetrics, error) {
	m, err := s.api.LatestHealthMetrics(ctx)
	if errors.Is(err, client.ErrNotFound) {
		return nil, nil
	}
	return m, err
}

func (s *ContextService) ScheduledWorkouts(ctx context.Context, includeCompleted bool) ([]ledger.ScheduledWorkout, error) {
	all, err := s.api.ListScheduledWorkouts(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]ledger.ScheduledWorkout, 0, len(all))
	for _, sw := range all {
		if !includeCompleted && sw.Completed {
			continue
		}
		result = append(result, sw)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ScheduledDate.Before(result[j].ScheduledDate)
	})
	return result, nil
}
