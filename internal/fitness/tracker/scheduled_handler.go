package tracker

import (
	"net/http"
	"time"

	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/telemetry/tracing"
)

func (handler *Handler) HandleListScheduled(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.scheduled.list")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	scheduled, err := handler.service.ListScheduledWorkouts(ctx, userID)
	if err != nil {
		writeServiceError(w, "list scheduled workouts", err)
		return
	}
	if len(scheduled) == 0 {
		scheduled = []ledger.ScheduledWorkout{}
	}

	writeJSON(w, ScheduledWorkoutsListResponse{
		ScheduledWorkouts: scheduled,
		Total:             len(scheduled),
	}, http.StatusOK)
}

func (handler *Handler) HandleAddScheduled(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.scheduled.new")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	var sw ledger.ScheduledWorkout
	if !decodeJSONBody(w, r, &sw) {
		return
	}
	sw.CreatedAt = time.Time{}

	added, err := handler.service.CreateScheduledWorkout(ctx, userID, sw)
	if err != nil {
		writeServiceError(w, "add scheduled workout", err)
		return
	}

	writeJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleGetScheduled(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.scheduled.get")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sw, err := handler.service.GetScheduledWorkout(ctx, userID, id)
	if err != nil {
		writeServiceError(w, "get scheduled workout", err)
		return
	}

	writeJSON(w, sw, http.StatusOK)
}

// HandleUpdateScheduled is also how a scheduled workout gets marked as completed.
func (handler *Handler) HandleUpdateScheduled(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.scheduled.update")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch ledger.ScheduledWorkoutPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}

	sw, err := handler.service.UpdateScheduledWorkout(ctx, userID, id, patch)
	if err != nil {
		writeServiceError(w, "update scheduled workout", err)
		return
	}

	writeJSON(w, sw, http.StatusOK)
}

func (handler *Handler) HandleDeleteScheduled(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.scheduled.delete")
	defer span.End()

	userID, ok := requestUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := handler.service.DeleteScheduledWorkout(ctx, userID, id); err != nil {
		writeServiceError(w, "delete scheduled workout", err)
		return
	}

	writeJSON(w, DeleteResponse{DeletedID: id}, http.StatusOK)
}
