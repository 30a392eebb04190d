package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const weeklyWindow = 7 * 24 * time.Hour

type Dashboard struct {
	CurrentStreak  int      `json:"currentStreak"`
	LongestStreak  int      `json:"longestStreak"`
	WeeklyWorkouts int      `json:"weeklyWorkouts"`
	TotalWorkouts  int      `json:"totalWorkouts"`
	WeightProgress float64  `json:"weightProgress"`
	CurrentWeight  *float64 `json:"currentWeight"`
	TargetWeight   *float64 `json:"targetWeight"`
}

// weightSource yields a weight or nil when it has none to offer.
type weightSource func() *float64

// firstWeight walks the sources in order and returns the first weight found.
func firstWeight(sources ...weightSource) *float64 {
	for _, source := range sources {
		if w := source(); w != nil {
			v := *w
			return &v
		}
	}
	return nil
}

func recordWeight(m *ledger.HealthMetrics) weightSource {
	return func() *float64 {
		if m == nil {
			return nil
		}
		return m.Weight
	}
}

func profileWeight(w *float64) weightSource {
	return func() *float64 {
		return w
	}
}

func hasBaseline(u ledger.User) bool {
	return u.CurrentWeight != nil && *u.CurrentWeight != 0
}

// Aggregate builds the dashboard snapshot. Workouts and metrics are expected in
// store order (most recent first). It reads its inputs only.
//
// Weight precedence:
//   - current weight: latest metrics record, then the profile
//   - target weight: the profile (metrics records carry no target)
//   - progress ends: latest / oldest metrics record, each falling back to the profile weight
func Aggregate(user ledger.User, workouts []ledger.Workout, metrics []ledger.HealthMetrics, now time.Time) Dashboard {
	weekAgo := now.Add(-weeklyWindow)
	weekly := 0
	for _, w := range workouts {
		if !w.CreatedAt.Before(weekAgo) {
			weekly++
		}
	}

	var latest, oldest *ledger.HealthMetrics
	if len(metrics) > 0 {
		latest = &metrics[0]
		oldest = &metrics[len(metrics)-1]
	}

	dashboard := Dashboard{
		CurrentStreak:  user.CurrentStreak,
		LongestStreak:  user.LongestStreak,
		WeeklyWorkouts: weekly,
		TotalWorkouts:  len(workouts),
		CurrentWeight:  firstWeight(recordWeight(latest), profileWeight(user.CurrentWeight)),
		TargetWeight:   firstWeight(profileWeight(user.TargetWeight)),
	}

	if len(metrics) < 2 || !hasBaseline(user) {
		return dashboard
	}

	latestWeight := firstWeight(recordWeight(latest), profileWeight(user.CurrentWeight))
	oldestWeight := firstWeight(recordWeight(oldest), profileWeight(user.CurrentWeight))
	dashboard.WeightProgress = roundTenth(*latestWeight - *oldestWeight)

	return dashboard
}

func roundTenth(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		// drop negative zero
		return 0
	}
	return r
}

type store interface {
	GetUser(ctx context.Context, id string) (*ledger.User, error)
	ListWorkouts(ctx context.Context, userID string) ([]ledger.Workout, error)
	ListHealthMetrics(ctx context.Context, userID string) ([]ledger.HealthMetrics, error)
}

// Aggregator recomputes the dashboard from raw records on every call.
type Aggregator struct {
	store store
	// NowFunc can be replaced in tests
	NowFunc func() time.Time
}

func NewAggregator(store store) *Aggregator {
	return &Aggregator{
		store:   store,
		NowFunc: time.Now,
	}
}

func (a *Aggregator) Dashboard(ctx context.Context, userID string) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stats.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	workouts, err := a.store.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	metrics, err := a.store.ListHealthMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list health metrics: %w", err)
	}

	dashboard := Aggregate(*user, workouts, metrics, a.NowFunc())
	return &dashboard, nil
}
