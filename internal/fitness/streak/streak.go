package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Result struct {
	Current int `json:"currentStreak"`
	Longest int `json:"longestStreak"`
}

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{year: y, month: m, day: d}
}

// Compute derives the streaks from workout timestamps.
// Every timestamp is reduced to its calendar day in loc; the current streak is
// the number of consecutive active days ending today (0 when today is inactive).
// The longest streak only ratchets forward: max(prevLongest, current).
func Compute(createdAts []time.Time, now time.Time, loc *time.Location, prevLongest int) Result {
	if loc == nil {
		loc = time.Local
	}

	active := make(map[day]struct{}, len(createdAts))
	for _, t := range createdAts {
		active[dayOf(t, loc)] = struct{}{}
	}

	current := 0
	// noon avoids DST edges when stepping back one day at a time
	y, m, d := now.In(loc).Date()
	cursor := time.Date(y, m, d, 12, 0, 0, 0, loc)
	for {
		if _, ok := active[dayOf(cursor, loc)]; !ok {
			break
		}
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return Result{
		Current: current,
		Longest: max(prevLongest, current),
	}
}

type store interface {
	GetUser(ctx context.Context, id string) (*ledger.User, error)
	ListWorkouts(ctx context.Context, userID string) ([]ledger.Workout, error)
	SetStreaks(ctx context.Context, userID string, current, longest int) error
}

// Engine recomputes a user's streaks from the stored workouts and writes both
// values back in a single store call. Callers serialize per user.
type Engine struct {
	store    store
	location *time.Location
	// NowFunc can be replaced in tests
	NowFunc func() time.Time
}

func NewEngine(store store, location *time.Location) *Engine {
	if location == nil {
		location = time.Local
	}
	return &Engine{
		store:    store,
		location: location,
		NowFunc:  time.Now,
	}
}

func (e *Engine) Location() *time.Location {
	return e.location
}

func (e *Engine) Recompute(ctx context.Context, userID string) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streak.recompute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("get user: %w", err)
	}

	workouts, err := e.store.ListWorkouts(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list workouts: %w", err)
	}

	createdAts := make([]time.Time, 0, len(workouts))
	for _, w := range workouts {
		createdAts = append(createdAts, w.CreatedAt)
	}

	res := Compute(createdAts, e.NowFunc(), e.location, user.LongestStreak)
	if err := e.store.SetStreaks(ctx, userID, res.Current, res.Longest); err != nil {
		return Result{}, fmt.Errorf("set streaks: %w", err)
	}

	span.SetAttributes(
		attribute.Int("streak.current", res.Current),
		attribute.Int("streak.longest", res.Longest),
	)
	return res, nil
}
