package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ankush-patel1/Fitness/internal/fitness/events"
	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/fitness/stats"
	"github.com/Ankush-patel1/Fitness/internal/fitness/streak"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/metrics"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"
	"github.com/Ankush-patel1/Fitness/pkg"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service is the API facing side of the ledger. Every operation is scoped to
// the requesting user: records owned by someone else look exactly like missing ones.
//
// Creating a workout is a two phase unit under the user's write lock: the raw
// record is appended, then the streaks are recomputed. Deleting or editing a
// workout does not recompute streaks.
type Service struct {
	store          ledger.Store
	streakEngine   *streak.Engine
	aggregator     *stats.Aggregator
	publisher      events.Publisher
	metricsManager *metrics.Manager
	locks          *userLocks
	nowFunc        func() time.Time

	// PasswordHashFunc and PasswordCheckFunc can be replaced in tests (bcrypt cost 14 is slow)
	PasswordHashFunc  func(password string) (string, error)
	PasswordCheckFunc func(password, hash string) bool
}

type NewServiceParams struct {
	Store          ledger.Store
	Location       *time.Location
	Publisher      events.Publisher
	MetricsManager *metrics.Manager
}

func NewService(params NewServiceParams) *Service {
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		store:             params.Store,
		streakEngine:      streak.NewEngine(params.Store, params.Location),
		aggregator:        stats.NewAggregator(params.Store),
		publisher:         publisher,
		metricsManager:    params.MetricsManager,
		locks:             newUserLocks(),
		nowFunc:           time.Now,
		PasswordHashFunc:  pkg.HashPassword,
		PasswordCheckFunc: pkg.CheckPasswordHash,
	}
}

// SetClock points streak, stats and schedule checks at the given clock.
func (s *Service) SetClock(now func() time.Time) {
	s.nowFunc = now
	s.streakEngine.NowFunc = now
	s.aggregator.NowFunc = now
}

func (s *Service) RegisterUser(ctx context.Context, username, email, name, password string) (_ *ledger.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.user.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username empty", ledger.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password too short", ledger.ErrValidation)
	}

	passwordHash, err := s.PasswordHashFunc(password)
	if errors.Is(err, pkg.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrValidation, err)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.AddUser(ctx, ledger.User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (_ *ledger.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.user.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.PasswordCheckFunc(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetUserProfile(ctx context.Context, userID string) (*ledger.User, error) {
	unlock := s.locks.RLock(userID)
	defer unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Service) UpdateUserProfile(ctx context.Context, userID string, patch ledger.UserPatch) (_ *ledger.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.user.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.store.UpdateUser(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// CreateWorkout appends the workout and recomputes the owner's streaks before
// returning. If the recomputation fails, the appended workout is removed again.
func (s *Service) CreateWorkout(ctx context.Context, userID string, workout ledger.Workout) (_ *ledger.Workout, _ streak.Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.workout.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := workout.Validate(); err != nil {
		return nil, streak.Result{}, err
	}
	workout.ID = ""
	workout.UserID = userID
	// the store stamps the creation time
	workout.CreatedAt = time.Time{}

	added, streakRes, err := s.appendWorkout(ctx, userID, workout)
	if err != nil {
		return nil, streak.Result{}, err
	}

	s.metricsManager.CounterWorkoutsCreated.Inc()
	span.SetAttributes(attribute.String("workout.id", added.ID))

	s.publishWorkoutCreated(ctx, *added, streakRes)

	return added, streakRes, nil
}

func (s *Service) appendWorkout(ctx context.Context, userID string, workout ledger.Workout) (*ledger.Workout, streak.Result, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, streak.Result{}, fmt.Errorf("get user: %w", err)
	}

	added, err := s.store.AddWorkout(ctx, workout)
	if err != nil {
		return nil, streak.Result{}, fmt.Errorf("add workout: %w", err)
	}

	recomputeStart := time.Now()
	streakRes, err := s.streakEngine.Recompute(ctx, userID)
	s.metricsManager.HistStreakRecompute.Observe(time.Since(recomputeStart).Seconds())
	if err != nil {
		s.metricsManager.CounterStreakRecomputeFailed.Inc()
		if _, delErr := s.store.DeleteWorkout(ctx, added.ID); delErr != nil {
			log.Errorf("roll back workout %s after failed streak recompute: %s", added.ID, delErr)
		}
		return nil, streak.Result{}, fmt.Errorf("recompute streak: %w", err)
	}

	return added, streakRes, nil
}

func (s *Service) publishWorkoutCreated(ctx context.Context, workout ledger.Workout, streakRes streak.Result) {
	err := s.publisher.PublishWorkoutCreated(ctx, events.WorkoutCreated{
		WorkoutID: workout.ID,
		UserID:    workout.UserID,
		Type:      workout.Type,
		Duration:  workout.Duration,
		CreatedAt: workout.CreatedAt,
	})
	s.countEvent(events.TypeWorkoutCreated, err)

	err = s.publisher.PublishStreakUpdated(ctx, events.StreakUpdated{
		UserID:        workout.UserID,
		CurrentStreak: streakRes.Current,
		LongestStreak: streakRes.Longest,
	})
	s.countEvent(events.TypeStreakUpdated, err)
}

func (s *Service) countEvent(eventType string, err error) {
	outcome := "published"
	if err != nil {
		outcome = "failed"
		log.Warnf("publish %s event: %s", eventType, err)
	}
	s.metricsManager.CounterEvents.WithLabelValues(eventType, outcome).Inc()
}

func (s *Service) ListWorkouts(ctx context.Context, userID string) ([]ledger.Workout, error) {
	workouts, err := s.store.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

func (s *Service) GetWorkout(ctx context.Context, userID, id string) (*ledger.Workout, error) {
	workout, err := s.store.GetWorkout(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	if workout.UserID != userID {
		return nil, fmt.Errorf("get workout: %w", ledger.ErrNotFound)
	}
	return workout, nil
}

// UpdateWorkout edits a workout in place; streaks stay as they are.
func (s *Service) UpdateWorkout(ctx context.Context, userID, id string, patch ledger.WorkoutPatch) (*ledger.Workout, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetWorkout(ctx, userID, id); err != nil {
		return nil, err
	}

	workout, err := s.store.UpdateWorkout(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}
	return workout, nil
}

// DeleteWorkout hard deletes the workout. Streaks are not recomputed.
func (s *Service) DeleteWorkout(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.workout.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.GetWorkout(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.store.DeleteWorkout(ctx, id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if !deleted {
		return fmt.Errorf("delete workout: %w", ledger.ErrNotFound)
	}

	s.metricsManager.CounterWorkoutsDeleted.Inc()
	return nil
}

func (s *Service) CreateHealthMetrics(ctx context.Context, userID string, m ledger.HealthMetrics) (_ *ledger.HealthMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.tracker.metrics.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ID = ""
	m.UserID = userID

	added, err := s.store.AddHealthMetrics(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("add health metrics: %w", err)
	}

	s.metricsManager.CounterHealthMetricsCreated.Inc()
	return added, nil
}

func (s *Service) ListHealthMetrics(ctx context.Context, userID string) ([]ledger.HealthMetrics, error) {
	metrics, err := s.store.ListHealthMetrics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list health metrics: %w", err)
	}
	return metrics, nil
}

// GetLatestHealthMetrics returns the most recent record, or ErrNotFound when the user has none.
func (s *Service) GetLatestHealthMetrics(ctx context.Context, userID string) (*ledger.HealthMetrics, error) {
	metrics, err := s.ListHealthMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("latest health metrics: %w", ledger.ErrNotFound)
	}
	return &metrics[0], nil
}

func (s *Service) DeleteHealthMetrics(ctx context.Context, userID, id string) error {
	m, err := s.store.GetHealthMetrics(ctx, id)
	if err != nil {
		return fmt.Errorf("get health metrics: %w", err)
	}
	if m.UserID != userID {
		return fmt.Errorf("get health metrics: %w", ledger.ErrNotFound)
	}

	deleted, err := s.store.DeleteHealthMetrics(ctx, id)
	if err != nil {
		return fmt.Errorf("delete health metrics: %w", err)
	}
	if !deleted {
		return fmt.Errorf("delete health metrics: %w", ledger.ErrNotFound)
	}
	return nil
}

func (s *Service) ListScheduledWorkouts(ctx context.Context, userID string) ([]ledger.ScheduledWorkout, error) {
	scheduled, err := s.store.ListScheduledWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scheduled workouts: %w", err)
	}
	return scheduled, nil
}

func (s *Service) CreateScheduledWorkout(ctx context.Context, userID string, sw ledger.ScheduledWorkout) (*ledger.ScheduledWorkout, error) {
	if err := sw.Validate(); err != nil {
		return nil, err
	}
	if sw.ScheduledDate.Before(s.nowFunc()) {
		return nil, fmt.Errorf("%w: scheduled date must be in the future", ledger.ErrValidation)
	}
	sw.ID = ""
	sw.UserID = userID

	added, err := s.store.AddScheduledWorkout(ctx, sw)
	if err != nil {
		return nil, fmt.Errorf("add scheduled workout: %w", err)
	}

	s.metricsManager.CounterScheduledCreated.Inc()
	return added, nil
}

func (s *Service) GetScheduledWorkout(ctx context.Context, userID, id string) (*ledger.ScheduledWorkout, error) {
	sw, err := s.store.GetScheduledWorkout(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get scheduled workout: %w", err)
	}
	if sw.UserID != userID {
		return nil, fmt.Errorf("get scheduled workout: %w", ledger.ErrNotFound)
	}
	return sw, nil
}

func (s *Service) UpdateScheduledWorkout(ctx context.Context, userID, id string, patch ledger.ScheduledWorkoutPatch) (*ledger.ScheduledWorkout, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetScheduledWorkout(ctx, userID, id); err != nil {
		return nil, err
	}

	sw, err := s.store.UpdateScheduledWorkout(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update scheduled workout: %w", err)
	}
	return sw, nil
}

func (s *Service) DeleteScheduledWorkout(ctx context.Context, userID, id string) error {
	if _, err := s.GetScheduledWorkout(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.store.DeleteScheduledWorkout(ctx, id)
	if err != nil {
		return fmt.Errorf("delete scheduled workout: %w", err)
	}
	if !deleted {
		return fmt.Errorf("delete scheduled workout: %w", ledger.ErrNotFound)
	}
	return nil
}

// GetDashboardStats recomputes the snapshot from raw records. It holds the
// user's read lock, so it never sees a workout whose streak update is pending.
func (s *Service) GetDashboardStats(ctx context.Context, userID string) (*stats.Dashboard, error) {
	unlock := s.locks.RLock(userID)
	defer unlock()

	dashboard, err := s.aggregator.Dashboard(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return dashboard, nil
}
