package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memWorkout struct {
	Workout
	seq uint64
}

type memHealthMetrics struct {
	HealthMetrics
	seq uint64
}

type memScheduledWorkout struct {
	ScheduledWorkout
	seq uint64
}

// MemoryStore keeps everything in process memory. Each user has an index of
// their record ids in insertion order, so per-user listing never scans the
// whole collection.
type MemoryStore struct {
	mu  sync.RWMutex
	seq uint64

	users      map[string]User
	usernames  map[string]string
	workouts   map[string]memWorkout
	metrics    map[string]memHealthMetrics
	scheduled  map[string]memScheduledWorkout
	byUserWork map[string][]string
	byUserMet  map[string][]string
	byUserSch  map[string][]string

	// NowFunc and NewIDFunc can be replaced in tests
	NowFunc   func() time.Time
	NewIDFunc func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      map[string]User{},
		usernames:  map[string]string{},
		workouts:   map[string]memWorkout{},
		metrics:    map[string]memHealthMetrics{},
		scheduled:  map[string]memScheduledWorkout{},
		byUserWork: map[string][]string{},
		byUserMet:  map[string][]string{},
		byUserSch:  map[string][]string{},
		NowFunc:    time.Now,
		NewIDFunc:  uuid.NewString,
	}
}

func (s *MemoryStore) stamp(createdAt time.Time) (string, time.Time, uint64) {
	s.seq++
	if createdAt.IsZero() {
		createdAt = s.NowFunc()
	}
	return s.NewIDFunc(), createdAt, s.seq
}

func (s *MemoryStore) AddUser(_ context.Context, user User) (*User, error) {
	if user.Username == "" {
		return nil, fmt.Errorf("%w: username empty", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Username)
	if _, taken := s.usernames[key]; taken {
		return nil, ErrUserExists
	}

	user.ID, user.CreatedAt, _ = s.stamp(user.CreatedAt)
	user.CurrentStreak = 0
	user.LongestStreak = 0
	s.users[user.ID] = user.clone()
	s.usernames[key] = user.ID

	return &user, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u = u.clone()
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id].clone()
	return &u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, patch UserPatch) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&u)
	s.users[id] = u

	u = u.clone()
	return &u, nil
}

func (s *MemoryStore) SetStreaks(_ context.Context, userID string, current, longest int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.CurrentStreak = current
	u.LongestStreak = longest
	s.users[userID] = u
	return nil
}

func (s *MemoryStore) AddWorkout(_ context.Context, workout Workout) (*Workout, error) {
	if workout.UserID == "" {
		return nil, fmt.Errorf("%w: workout owner missing", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var seq uint64
	workout.ID, workout.CreatedAt, seq = s.stamp(workout.CreatedAt)
	s.workouts[workout.ID] = memWorkout{Workout: workout, seq: seq}
	s.byUserWork[workout.UserID] = append(s.byUserWork[workout.UserID], workout.ID)

	return &workout, nil
}

func (s *MemoryStore) GetWorkout(_ context.Context, id string) (*Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	workout := w.Workout
	return &workout, nil
}

func (s *MemoryStore) ListWorkouts(_ context.Context, userID string) ([]Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserWork[userID]
	records := make([]memWorkout, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.workouts[id])
	}
	sort.SliceStable(records, func(i, j int) bool {
		return newerFirst(records[i].CreatedAt, records[j].CreatedAt, records[i].seq, records[j].seq)
	})

	workouts := make([]Workout, 0, len(records))
	for _, r := range records {
		workouts = append(workouts, r.Workout)
	}
	return workouts, nil
}

func (s *MemoryStore) UpdateWorkout(_ context.Context, id string, patch WorkoutPatch) (*Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&w.Workout)
	s.workouts[id] = w

	workout := w.Workout
	return &workout, nil
}

func (s *MemoryStore) DeleteWorkout(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workouts[id]
	if !ok {
		return false, nil
	}
	delete(s.workouts, id)
	s.byUserWork[w.UserID] = removeID(s.byUserWork[w.UserID], id)
	return true, nil
}

func (s *MemoryStore) AddHealthMetrics(_ context.Context, metrics HealthMetrics) (*HealthMetrics, error) {
	if metrics.UserID == "" {
		return nil, fmt.Errorf("%w: health metrics owner missing", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var seq uint64
	metrics.ID, metrics.CreatedAt, seq = s.stamp(metrics.CreatedAt)
	s.metrics[metrics.ID] = memHealthMetrics{HealthMetrics: metrics.clone(), seq: seq}
	s.byUserMet[metrics.UserID] = append(s.byUserMet[metrics.UserID], metrics.ID)

	return &metrics, nil
}

func (s *MemoryStore) GetHealthMetrics(_ context.Context, id string) (*HealthMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.metrics[id]
	if !ok {
		return nil, ErrNotFound
	}
	metrics := m.HealthMetrics.clone()
	return &metrics, nil
}

func (s *MemoryStore) ListHealthMetrics(_ context.Context, userID string) ([]HealthMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserMet[userID]
	records := make([]memHealthMetrics, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.metrics[id])
	}
	sort.SliceStable(records, func(i, j int) bool {
		return newerFirst(records[i].CreatedAt, records[j].CreatedAt, records[i].seq, records[j].seq)
	})

	metrics := make([]HealthMetrics, 0, len(records))
	for _, r := range records {
		metrics = append(metrics, r.HealthMetrics.clone())
	}
	return metrics, nil
}

func (s *MemoryStore) DeleteHealthMetrics(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.metrics[id]
	if !ok {
		return false, nil
	}
	delete(s.metrics, id)
	s.byUserMet[m.UserID] = removeID(s.byUserMet[m.UserID], id)
	return true, nil
}

func (s *MemoryStore) AddScheduledWorkout(_ context.Context, sw ScheduledWorkout) (*ScheduledWorkout, error) {
	if sw.UserID == "" {
		return nil, fmt.Errorf("%w: scheduled workout owner missing", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var seq uint64
	sw.ID, sw.CreatedAt, seq = s.stamp(sw.CreatedAt)
	s.scheduled[sw.ID] = memScheduledWorkout{ScheduledWorkout: sw, seq: seq}
	s.byUserSch[sw.UserID] = append(s.byUserSch[sw.UserID], sw.ID)

	return &sw, nil
}

func (s *MemoryStore) GetScheduledWorkout(_ context.Context, id string) (*ScheduledWorkout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sw, ok := s.scheduled[id]
	if !ok {
		return nil, ErrNotFound
	}
	scheduled := sw.ScheduledWorkout
	return &scheduled, nil
}

func (s *MemoryStore) ListScheduledWorkouts(_ context.Context, userID string) ([]ScheduledWorkout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserSch[userID]
	records := make([]memScheduledWorkout, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.scheduled[id])
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.ScheduledDate.Equal(b.ScheduledDate) {
			return a.ScheduledDate.Before(b.ScheduledDate)
		}
		return a.seq < b.seq
	})

	scheduled := make([]ScheduledWorkout, 0, len(records))
	for _, r := range records {
		scheduled = append(scheduled, r.ScheduledWorkout)
	}
	return scheduled, nil
}

func (s *MemoryStore) UpdateScheduledWorkout(_ context.Context, id string, patch ScheduledWorkoutPatch) (*ScheduledWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, ok := s.scheduled[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&sw.ScheduledWorkout)
	s.scheduled[id] = sw

	scheduled := sw.ScheduledWorkout
	return &scheduled, nil
}

func (s *MemoryStore) DeleteScheduledWorkout(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, ok := s.scheduled[id]
	if !ok {
		return false, nil
	}
	delete(s.scheduled, id)
	s.byUserSch[sw.UserID] = removeID(s.byUserSch[sw.UserID], id)
	return true, nil
}

// newerFirst orders by creation time descending; equal timestamps keep insertion order.
func newerFirst(a, b time.Time, seqA, seqB uint64) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return seqA < seqB
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
