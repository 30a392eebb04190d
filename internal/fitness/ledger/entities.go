package ledger

import (
	"fmt"
	"time"
)

type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	CurrentWeight    *float64  `json:"currentWeight,omitempty"`
	TargetWeight     *float64  `json:"targetWeight,omitempty"`
	WorkoutFrequency *int      `json:"workoutFrequency,omitempty"`
	CurrentStreak    int       `json:"currentStreak"`
	LongestStreak    int       `json:"longestStreak"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (u User) clone() User {
	u.CurrentWeight = cloneFloat(u.CurrentWeight)
	u.TargetWeight = cloneFloat(u.TargetWeight)
	u.WorkoutFrequency = cloneInt(u.WorkoutFrequency)
	return u
}

// UserPatch carries the profile fields a caller may change. Streak fields are
// only written through Store.SetStreaks.
type UserPatch struct {
	Name             *string  `json:"name,omitempty"`
	Email            *string  `json:"email,omitempty"`
	CurrentWeight    *float64 `json:"currentWeight,omitempty"`
	TargetWeight     *float64 `json:"targetWeight,omitempty"`
	WorkoutFrequency *int     `json:"workoutFrequency,omitempty"`
}

func (p UserPatch) apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.CurrentWeight != nil {
		u.CurrentWeight = cloneFloat(p.CurrentWeight)
	}
	if p.TargetWeight != nil {
		u.TargetWeight = cloneFloat(p.TargetWeight)
	}
	if p.WorkoutFrequency != nil {
		u.WorkoutFrequency = cloneInt(p.WorkoutFrequency)
	}
}

type Workout struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Duration  int       `json:"duration"`
	Exercises string    `json:"exercises"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type WorkoutPatch struct {
	Name      *string `json:"name,omitempty"`
	Type      *string `json:"type,omitempty"`
	Duration  *int    `json:"duration,omitempty"`
	Exercises *string `json:"exercises,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (p WorkoutPatch) apply(w *Workout) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Duration != nil {
		w.Duration = *p.Duration
	}
	if p.Exercises != nil {
		w.Exercises = *p.Exercises
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
}

type SleepQuality string

const (
	SleepQualityPoor      SleepQuality = "poor"
	SleepQualityFair      SleepQuality = "fair"
	SleepQualityGood      SleepQuality = "good"
	SleepQualityExcellent SleepQuality = "excellent"
)

func (q SleepQuality) Valid() bool {
	switch q {
	case SleepQualityPoor, SleepQualityFair, SleepQualityGood, SleepQualityExcellent:
		return true
	default:
		return false
	}
}

type HealthMetrics struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Weight       *float64      `json:"weight,omitempty"`
	SleepHours   *float64      `json:"sleepHours,omitempty"`
	SleepQuality *SleepQuality `json:"sleepQuality,omitempty"`
	WaterIntake  *int          `json:"waterIntake,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func (m HealthMetrics) clone() HealthMetrics {
	m.Weight = cloneFloat(m.Weight)
	m.SleepHours = cloneFloat(m.SleepHours)
	m.WaterIntake = cloneInt(m.WaterIntake)
	if m.SleepQuality != nil {
		q := *m.SleepQuality
		m.SleepQuality = &q
	}
	return m
}

type ScheduledWorkout struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Duration      int       `json:"duration"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ScheduledWorkoutPatch struct {
	Name          *string    `json:"name,omitempty"`
	Type          *string    `json:"type,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Duration      *int       `json:"duration,omitempty"`
	Completed     *bool      `json:"completed,omitempty"`
}

func (p ScheduledWorkoutPatch) apply(sw *ScheduledWorkout) {
	if p.Name != nil {
		sw.Name = *p.Name
	}
	if p.Type != nil {
		sw.Type = *p.Type
	}
	if p.ScheduledDate != nil {
		sw.ScheduledDate = *p.ScheduledDate
	}
	if p.Duration != nil {
		sw.Duration = *p.Duration
	}
	if p.Completed != nil {
		sw.Completed = *p.Completed
	}
}

// Validate checks the fields a new workout must carry. The owner is set by the caller.
func (w Workout) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("%w: workout name empty", ErrValidation)
	}
	if w.Type == "" {
		return fmt.Errorf("%w: workout type empty", ErrValidation)
	}
	if w.Duration <= 0 {
		return fmt.Errorf("%w: workout duration must be positive", ErrValidation)
	}
	return nil
}

func (p WorkoutPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: workout name empty", ErrValidation)
	}
	if p.Type != nil && *p.Type == "" {
		return fmt.Errorf("%w: workout type empty", ErrValidation)
	}
	if p.Duration != nil && *p.Duration <= 0 {
		return fmt.Errorf("%w: workout duration must be positive", ErrValidation)
	}
	return nil
}

func (m HealthMetrics) Validate() error {
	if m.Weight == nil && m.SleepHours == nil && m.SleepQuality == nil && m.WaterIntake == nil && m.Notes == "" {
		return fmt.Errorf("%w: health metrics record is empty", ErrValidation)
	}
	if m.Weight != nil && *m.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrValidation)
	}
	if m.SleepHours != nil && (*m.SleepHours < 0 || *m.SleepHours > 24) {
		return fmt.Errorf("%w: sleep hours out of range", ErrValidation)
	}
	if m.SleepQuality != nil && !m.SleepQuality.Valid() {
		return fmt.Errorf("%w: unknown sleep quality [%s]", ErrValidation, *m.SleepQuality)
	}
	if m.WaterIntake != nil && *m.WaterIntake < 0 {
		return fmt.Errorf("%w: water intake must not be negative", ErrValidation)
	}
	return nil
}

func (sw ScheduledWorkout) Validate() error {
	if sw.Name == "" {
		return fmt.Errorf("%w: scheduled workout name empty", ErrValidation)
	}
	if sw.Type == "" {
		return fmt.Errorf("%w: scheduled workout type empty", ErrValidation)
	}
	if sw.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduled date missing", ErrValidation)
	}
	if sw.Duration <= 0 {
		return fmt.Errorf("%w: scheduled workout duration must be positive", ErrValidation)
	}
	return nil
}

func (p ScheduledWorkoutPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: scheduled workout name empty", ErrValidation)
	}
	if p.Type != nil && *p.Type == "" {
		return fmt.Errorf("%w: scheduled workout type empty", ErrValidation)
	}
	if p.ScheduledDate != nil && p.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduled date missing", ErrValidation)
	}
	if p.Duration != nil && *p.Duration <= 0 {
		return fmt.Errorf("%w: scheduled workout duration must be positive", ErrValidation)
	}
	return nil
}

func (p UserPatch) Validate() error {
	if p.CurrentWeight != nil && *p.CurrentWeight <= 0 {
		return fmt.Errorf("%w: current weight must be positive", ErrValidation)
	}
	if p.TargetWeight != nil && *p.TargetWeight <= 0 {
		return fmt.Errorf("%w: target weight must be positive", ErrValidation)
	}
	if p.WorkoutFrequency != nil && *p.WorkoutFrequency < 0 {
		return fmt.Errorf("%w: workout frequency must not be negative", ErrValidation)
	}
	return nil
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
