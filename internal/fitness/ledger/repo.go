package ledger

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"
	"github.com/Ankush-patel1/Fitness/pkg"
)

//go:embed schema.sql
var Schema string

const (
	userColumns      = `id, username, email, name, password_hash, current_weight, target_weight, workout_frequency, current_streak, longest_streak, created_at`
	workoutColumns   = `id, user_id, name, type, duration, exercises, notes, created_at`
	metricsColumns   = `id, user_id, weight, sleep_hours, sleep_quality, water_intake, notes, created_at`
	scheduledColumns = `id, user_id, name, type, scheduled_date, duration, completed, created_at`
)

// Repo is the postgres backed Store.
type Repo struct {
	db *pgxpool.Pool
	// NowFunc can be replaced in tests
	NowFunc func() time.Time
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:      db,
		NowFunc: time.Now,
	}
}

// EnsureSchema creates the ledger tables when they are missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

func (r *Repo) stamp(createdAt time.Time) (string, time.Time) {
	if createdAt.IsZero() {
		createdAt = r.NowFunc()
	}
	return uuid.NewString(), createdAt
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func (r *Repo) AddUser(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.user.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.Username == "" {
		return nil, fmt.Errorf("%w: username empty", ErrValidation)
	}

	user.ID, user.CreatedAt = r.stamp(user.CreatedAt)
	user.CurrentStreak, user.LongestStreak = 0, 0

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO fitness_user (`+userColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9);`,
		user.ID, user.Username, user.Email, user.Name, user.PasswordHash,
		user.CurrentWeight, user.TargetWeight, user.WorkoutFrequency, user.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUserExists
		}
		return nil, unavailable("add user", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return &user, nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.user.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM fitness_user WHERE id = $1;`, id)
	return scanUser(row, "get user")
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.user.getbyusername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM fitness_user WHERE lower(username) = lower($1);`, username)
	return scanUser(row, "get user by username")
}

func (r *Repo) UpdateUser(ctx context.Context, id string, patch UserPatch) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.user.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	row := r.db.QueryRow(
		ctx,
		`UPDATE fitness_user SET
				name = COALESCE($2, name),
				email = COALESCE($3, email),
				current_weight = COALESCE($4, current_weight),
				target_weight = COALESCE($5, target_weight),
				workout_frequency = COALESCE($6, workout_frequency)
			WHERE id = $1
			RETURNING `+userColumns+`;`,
		id, patch.Name, patch.Email, patch.CurrentWeight, patch.TargetWeight, patch.WorkoutFrequency,
	)
	return scanUser(row, "update user")
}

func (r *Repo) SetStreaks(ctx context.Context, userID string, current, longest int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.user.setstreaks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("streak.current", current),
		attribute.Int("streak.longest", longest),
	)

	tag, err := r.db.Exec(
		ctx,
		`UPDATE fitness_user SET current_streak = $2, longest_streak = $3 WHERE id = $1;`,
		userID, current, longest,
	)
	if err != nil {
		return unavailable("set streaks", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) AddWorkout(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.workout.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.UserID == "" {
		return nil, fmt.Errorf("%w: workout owner missing", ErrValidation)
	}
	workout.ID, workout.CreatedAt = r.stamp(workout.CreatedAt)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO workout (`+workoutColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		workout.ID, workout.UserID, workout.Name, workout.Type, workout.Duration,
		workout.Exercises, workout.Notes, workout.CreatedAt,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("add workout: owner: %w", ErrNotFound)
		}
		if pkg.IsCheckViolationError(err) {
			return nil, fmt.Errorf("add workout: %w: %s", ErrValidation, err)
		}
		return nil, unavailable("add workout", err)
	}

	span.SetAttributes(attribute.String("workout.id", workout.ID))
	return &workout, nil
}

func (r *Repo) GetWorkout(ctx context.Context, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.workout.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	row := r.db.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workout WHERE id = $1;`, id)
	return scanWorkout(row, "get workout")
}

func (r *Repo) ListWorkouts(ctx context.Context, userID string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.workout.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+workoutColumns+` FROM workout WHERE user_id = $1 ORDER BY created_at DESC, seq ASC;`,
		userID,
	)
	if err != nil {
		return nil, unavailable("list workouts", err)
	}
	defer rows.Close()

	workouts := make([]Workout, 0)
	for rows.Next() {
		w, err := scanWorkout(rows, "list workouts")
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list workouts", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

func (r *Repo) UpdateWorkout(ctx context.Context, id string, patch WorkoutPatch) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.workout.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	row := r.db.QueryRow(
		ctx,
		`UPDATE workout SET
				name = COALESCE($2, name),
				type = COALESCE($3, type),
				duration = COALESCE($4, duration),
				exercises = COALESCE($5, exercises),
				notes = COALESCE($6, notes)
			WHERE id = $1
			RETURNING `+workoutColumns+`;`,
		id, patch.Name, patch.Type, patch.Duration, patch.Exercises, patch.Notes,
	)
	return scanWorkout(row, "update workout")
}

func (r *Repo) DeleteWorkout(ctx context.Context, id string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.workout.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1;`, id)
	if err != nil {
		return false, unavailable("delete workout", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) AddHealthMetrics(ctx context.Context, metrics HealthMetrics) (_ *HealthMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.metrics.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if metrics.UserID == "" {
		return nil, fmt.Errorf("%w: health metrics owner missing", ErrValidation)
	}
	metrics.ID, metrics.CreatedAt = r.stamp(metrics.CreatedAt)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO health_metrics (`+metricsColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		metrics.ID, metrics.UserID, metrics.Weight, metrics.SleepHours,
		sleepQualityParam(metrics.SleepQuality), metrics.WaterIntake, metrics.Notes, metrics.CreatedAt,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("add health metrics: owner: %w", ErrNotFound)
		}
		return nil, unavailable("add health metrics", err)
	}

	span.SetAttributes(attribute.String("metrics.id", metrics.ID))
	return &metrics, nil
}

func (r *Repo) GetHealthMetrics(ctx context.Context, id string) (_ *HealthMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.metrics.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("metrics.id", id))

	row := r.db.QueryRow(ctx, `SELECT `+metricsColumns+` FROM health_metrics WHERE id = $1;`, id)
	return scanHealthMetrics(row, "get health metrics")
}

func (r *Repo) ListHealthMetrics(ctx context.Context, userID string) (_ []HealthMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.metrics.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+metricsColumns+` FROM health_metrics WHERE user_id = $1 ORDER BY created_at DESC, seq ASC;`,
		userID,
	)
	if err != nil {
		return nil, unavailable("list health metrics", err)
	}
	defer rows.Close()

	metrics := make([]HealthMetrics, 0)
	for rows.Next() {
		m, err := scanHealthMetrics(rows, "list health metrics")
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list health metrics", err)
	}

	return metrics, nil
}

func (r *Repo) DeleteHealthMetrics(ctx context.Context, id string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.metrics.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("metrics.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM health_metrics WHERE id = $1;`, id)
	if err != nil {
		return false, unavailable("delete health metrics", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) AddScheduledWorkout(ctx context.Context, sw ScheduledWorkout) (_ *ScheduledWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.scheduled.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sw.UserID == "" {
		return nil, fmt.Errorf("%w: scheduled workout owner missing", ErrValidation)
	}
	sw.ID, sw.CreatedAt = r.stamp(sw.CreatedAt)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO scheduled_workout (`+scheduledColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		sw.ID, sw.UserID, sw.Name, sw.Type, sw.ScheduledDate, sw.Duration, sw.Completed, sw.CreatedAt,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fmt.Errorf("add scheduled workout: owner: %w", ErrNotFound)
		}
		if pkg.IsCheckViolationError(err) {
			return nil, fmt.Errorf("add scheduled workout: %w: %s", ErrValidation, err)
		}
		return nil, unavailable("add scheduled workout", err)
	}

	span.SetAttributes(attribute.String("scheduled.id", sw.ID))
	return &sw, nil
}

func (r *Repo) GetScheduledWorkout(ctx context.Context, id string) (_ *ScheduledWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.scheduled.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("scheduled.id", id))

	row := r.db.QueryRow(ctx, `SELECT `+scheduledColumns+` FROM scheduled_workout WHERE id = $1;`, id)
	return scanScheduledWorkout(row, "get scheduled workout")
}

func (r *Repo) ListScheduledWorkouts(ctx context.Context, userID string) (_ []ScheduledWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.scheduled.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_workout WHERE user_id = $1 ORDER BY scheduled_date ASC, seq ASC;`,
		userID,
	)
	if err != nil {
		return nil, unavailable("list scheduled workouts", err)
	}
	defer rows.Close()

	scheduled := make([]ScheduledWorkout, 0)
	for rows.Next() {
		sw, err := scanScheduledWorkout(rows, "list scheduled workouts")
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled, *sw)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list scheduled workouts", err)
	}

	return scheduled, nil
}

func (r *Repo) UpdateScheduledWorkout(ctx context.Context, id string, patch ScheduledWorkoutPatch) (_ *ScheduledWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.scheduled.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("scheduled.id", id))

	row := r.db.QueryRow(
		ctx,
		`UPDATE scheduled_workout SET
				name = COALESCE($2, name),
				type = COALESCE($3, type),
				scheduled_date = COALESCE($4, scheduled_date),
				duration = COALESCE($5, duration),
				completed = COALESCE($6, completed)
			WHERE id = $1
			RETURNING `+scheduledColumns+`;`,
		id, patch.Name, patch.Type, patch.ScheduledDate, patch.Duration, patch.Completed,
	)
	return scanScheduledWorkout(row, "update scheduled workout")
}

func (r *Repo) DeleteScheduledWorkout(ctx context.Context, id string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.scheduled.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("scheduled.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM scheduled_workout WHERE id = $1;`, id)
	if err != nil {
		return false, unavailable("delete scheduled workout", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return unavailable(op, err)
}

func scanUser(row pgx.Row, op string) (*User, error) {
	var u User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash,
		&u.CurrentWeight, &u.TargetWeight, &u.WorkoutFrequency,
		&u.CurrentStreak, &u.LongestStreak, &u.CreatedAt,
	); err != nil {
		return nil, scanErr(op, err)
	}
	return &u, nil
}

func scanWorkout(row pgx.Row, op string) (*Workout, error) {
	var w Workout
	if err := row.Scan(
		&w.ID, &w.UserID, &w.Name, &w.Type, &w.Duration, &w.Exercises, &w.Notes, &w.CreatedAt,
	); err != nil {
		return nil, scanErr(op, err)
	}
	return &w, nil
}

func scanHealthMetrics(row pgx.Row, op string) (*HealthMetrics, error) {
	var (
		m            HealthMetrics
		sleepQuality *string
	)
	if err := row.Scan(
		&m.ID, &m.UserID, &m.Weight, &m.SleepHours, &sleepQuality, &m.WaterIntake, &m.Notes, &m.CreatedAt,
	); err != nil {
		return nil, scanErr(op, err)
	}
	if sleepQuality != nil {
		q := SleepQuality(*sleepQuality)
		m.SleepQuality = &q
	}
	return &m, nil
}

func scanScheduledWorkout(row pgx.Row, op string) (*ScheduledWorkout, error) {
	var sw ScheduledWorkout
	if err := row.Scan(
		&sw.ID, &sw.UserID, &sw.Name, &sw.Type, &sw.ScheduledDate, &sw.Duration, &sw.Completed, &sw.CreatedAt,
	); err != nil {
		return nil, scanErr(op, err)
	}
	return &sw, nil
}

func sleepQualityParam(q *SleepQuality) *string {
	if q == nil {
		return nil
	}
	s := string(*q)
	return &s
}
