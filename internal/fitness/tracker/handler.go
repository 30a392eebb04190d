package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Ankush-patel1/Fitness/internal/auth"
	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/fitness/stats"
	"github.com/Ankush-patel1/Fitness/internal/fitness/streak"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"
	"github.com/Ankush-patel1/Fitness/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=tracker_test

type trackerService interface {
	GetUserProfile(ctx context.Context, userID string) (*ledger.User, error)
	UpdateUserProfile(ctx context.Context, userID string, patch ledger.UserPatch) (*ledger.User, error)
	CreateWorkout(ctx context.Context, userID string, workout ledger.Workout) (*ledger.Workout, streak.Result, error)
	ListWorkouts(ctx context.Context, userID string) ([]ledger.Workout, error)
	GetWorkout(ctx context.Context, userID, id string) (*ledger.Workout, error)
	UpdateWorkout(ctx context.Context, userID, id string, patch ledger.WorkoutPatch) (*ledger.Workout, error)
	DeleteWorkout(ctx context.Context, userID, id string) error
	CreateHealthMetrics(ctx context.Context, userID string, hm ledger.HealthMetrics) (*ledger.HealthMetrics, error)
	ListHealthMetrics(ctx context.Context, userID string) ([]ledger.HealthMetrics, error)
	GetLatestHealthMetrics(ctx context.Context, userID string) (*ledger.HealthMetrics, error)
	DeleteHealthMetrics(ctx context.Context, userID, id string) error
	ListScheduledWorkouts(ctx context.Context, userID string) ([]ledger.ScheduledWorkout, error)
	CreateScheduledWorkout(ctx context.Context, userID string, sw ledger.ScheduledWorkout) (*ledger.ScheduledWorkout, error)
	GetScheduledWorkout(ctx context.Context, userID, id string) (*ledger.ScheduledWorkout, error)
	UpdateScheduledWorkout(ctx context.Context, userID, id string, patch ledger.ScheduledWorkoutPatch) (*ledger.ScheduledWorkout, error)
	DeleteScheduledWorkout(ctx context.Context, userID, id string) error
	GetDashboardStats(ctx context.Context, userID string) (*stats.Dashboard, error)
}

var _ trackerService = (*Service)(nil)

type AddWorkoutResponse struct {
	ledger.Workout
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

type WorkoutsListResponse struct {
	Workouts []ledger.Workout `json:"workouts"`
	Total    int              `json:"total"`
}

type HealthMetricsListResponse struct {
	HealthMetrics []ledger.HealthMetrics `json:"healthMetrics"`
	Total         int                    `json:"total"`
}

type ScheduledWorkoutsListResponse struct {
	ScheduledWorkouts []ledger.ScheduledWorkout `json:"scheduledWorkouts"`
	Total             int                       `json:"total"`
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	service trackerService
}

func NewHandler(service trackerService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/profile", handler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", handler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")

	r.HandleFunc("/workouts", handler.HandleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts", handler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleUpdateWorkout).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleDeleteWorkout).Methods("DELETE", "OPTIONS").Name("delete-workout")

	r.HandleFunc("/health-metrics", handler.HandleListHealthMetrics).Methods("GET", "OPTIONS").Name("list-health-metrics")
	r.HandleFunc("/health-metrics", handler.HandleAddHealthMetrics).Methods("POST", "OPTIONS").Name("new-health-metrics")
	r.HandleFunc("/health-metrics/latest", handler.HandleLatestHealthMetrics).Methods("GET", "OPTIONS").Name("latest-health-metrics")
	r.HandleFunc("/health-metrics/{id}", handler.HandleDeleteHealthMetrics).Methods("DELETE", "OPTIONS").Name("delete-health-metrics")

	r.HandleFunc("/scheduled-workouts", handler.HandleListScheduled).Methods("GET", "OPTIONS").Name("list-scheduled")
	r.HandleFunc("/scheduled-workouts", handler.HandleAddScheduled).Methods("POST", "OPTIONS").Name("new-scheduled")
	r.HandleFunc("/scheduled-workouts/{id}", handler.HandleGetScheduled).Methods("GET", "OPTIONS").Name("get-scheduled")
	r.HandleFunc("/scheduled-workouts/{id}", handler.HandleUpdateScheduled).Methods("PUT", "OPTIONS").Name("update-scheduled")
	r.HandleFunc("/scheduled-workouts/{id}", handler.HandleDeleteScheduled).Methods("DELETE", "OPTIONS").Name("delete-scheduled")

	r.HandleFunc("/dashboard/stats", handler.HandleDashboardStats).Methods("GET", "OPTIONS").Name("dashboard-stats")
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.profile.get")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	user, err := handler.service.GetUserProfile(ctx, userID)
	if err != nil {
		writeServiceError(w, "get profile", err)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.profile.update")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var patch ledger.UserPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}

	user, err := handler.service.UpdateUserProfile(ctx, userID, patch)
	if err != nil {
		writeServiceError(w, "update profile", err)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.workout.new")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var workout ledger.Workout
	if !decodeJSONBody(w, r, &workout) {
		return
	}
	// the server stamps the creation time
	workout.CreatedAt = time.Time{}

	added, streakRes, err := handler.service.CreateWorkout(ctx, userID, workout)
	if err != nil {
		writeServiceError(w, "add workout", err)
		return
	}

	log.Debugf("new workout added: [%s] [%s] for %s, streak %d", added.ID, added.Name, userID, streakRes.Current)

	writeJSON(w, AddWorkoutResponse{
		Workout:       *added,
		CurrentStreak: streakRes.Current,
		LongestStreak: streakRes.Longest,
	}, http.StatusCreated)
}

func (handler *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.workout.list")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	workouts, err := handler.service.ListWorkouts(ctx, userID)
	if err != nil {
		writeServiceError(w, "list workouts", err)
		return
	}
	if len(workouts) == 0 {
		workouts = []ledger.Workout{}
	}

	writeJSON(w, WorkoutsListResponse{
		Workouts: workouts,
		Total:    len(workouts),
	}, http.StatusOK)
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.workout.get")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	workout, err := handler.service.GetWorkout(ctx, userID, id)
	if err != nil {
		writeServiceError(w, "get workout", err)
		return
	}

	writeJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.workout.update")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch ledger.WorkoutPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}

	workout, err := handler.service.UpdateWorkout(ctx, userID, id, patch)
	if err != nil {
		writeServiceError(w, "update workout", err)
		return
	}

	writeJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.workout.delete")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.service.DeleteWorkout(ctx, userID, id); err != nil {
		writeServiceError(w, "delete workout", err)
		return
	}

	writeJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleAddHealthMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.metrics.new")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var m ledger.HealthMetrics
	if !decodeJSONBody(w, r, &m) {
		return
	}
	m.CreatedAt = time.Time{}

	added, err := handler.service.CreateHealthMetrics(ctx, userID, m)
	if err != nil {
		writeServiceError(w, "add health metrics", err)
		return
	}

	writeJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleListHealthMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.metrics.list")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	metrics, err := handler.service.ListHealthMetrics(ctx, userID)
	if err != nil {
		writeServiceError(w, "list health metrics", err)
		return
	}
	if len(metrics) == 0 {
		metrics = []ledger.HealthMetrics{}
	}

	writeJSON(w, HealthMetricsListResponse{
		HealthMetrics: metrics,
		Total:         len(metrics),
	}, http.StatusOK)
}

func (handler *Handler) HandleLatestHealthMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.metrics.latest")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	latest, err := handler.service.GetLatestHealthMetrics(ctx, userID)
	if err != nil {
		writeServiceError(w, "latest health metrics", err)
		return
	}

	writeJSON(w, latest, http.StatusOK)
}

func (handler *Handler) HandleDeleteHealthMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.metrics.delete")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.service.DeleteHealthMetrics(ctx, userID, id); err != nil {
		writeServiceError(w, "delete health metrics", err)
		return
	}

	writeJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.dashboard")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	dashboard, err := handler.service.GetDashboardStats(ctx, userID)
	if err != nil {
		writeServiceError(w, "dashboard stats", err)
		return
	}

	writeJSON(w, dashboard, http.StatusOK)
}

func requestUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Tracef("[missing user] => %s", r.URL.Path)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Debugf("%s, unmarshal json body: %s", r.URL.Path, err)
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, status)
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
