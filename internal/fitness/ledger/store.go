package ledger

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("store unavailable")
	ErrUserExists  = errors.New("user already exists")
)

// Store holds the four entity collections. Inserts generate the id and the
// creation timestamp. Lists come back ordered: workouts and health metrics
// most recent first, scheduled workouts soonest first; ties keep insertion order.
// The store never recomputes derived user state on its own.
type Store interface {
	AddUser(ctx context.Context, user User) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*User, error)
	// SetStreaks writes both streak fields in one step.
	SetStreaks(ctx context.Context, userID string, current, longest int) error

	AddWorkout(ctx context.Context, workout Workout) (*Workout, error)
	GetWorkout(ctx context.Context, id string) (*Workout, error)
	ListWorkouts(ctx context.Context, userID string) ([]Workout, error)
	UpdateWorkout(ctx context.Context, id string, patch WorkoutPatch) (*Workout, error)
	DeleteWorkout(ctx context.Context, id string) (bool, error)

	AddHealthMetrics(ctx context.Context, metrics HealthMetrics) (*HealthMetrics, error)
	GetHealthMetrics(ctx context.Context, id string) (*HealthMetrics, error)
	ListHealthMetrics(ctx context.Context, userID string) ([]HealthMetrics, error)
	DeleteHealthMetrics(ctx context.Context, id string) (bool, error)

	AddScheduledWorkout(ctx context.Context, sw ScheduledWorkout) (*ScheduledWorkout, error)
	GetScheduledWorkout(ctx context.Context, id string) (*ScheduledWorkout, error)
	ListScheduledWorkouts(ctx context.Context, userID string) ([]ScheduledWorkout, error)
	UpdateScheduledWorkout(ctx context.Context, id string, patch ScheduledWorkoutPatch) (*ScheduledWorkout, error)
	DeleteScheduledWorkout(ctx context.Context, id string) (bool, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*Repo)(nil)
)
