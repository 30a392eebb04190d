//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ankush-patel1/Fitness/internal/fitness/client"
	"github.com/Ankush-patel1/Fitness/internal/fitness/ledger"
	"github.com/Ankush-patel1/Fitness/internal/fitness/tracker"
)

func (s *IntegrationTestSuite) apiClient(acc *account) *client.Client {
	c, err := client.New(serverEndpoint, client.WithAccessToken(acc.login.AccessToken))
	s.Require().NoError(err)
	return c
}

func (s *IntegrationTestSuite) TestWorkoutsAndDashboard() {
	ctx := context.Background()
	acc := s.registerAndLogin(ctx)
	api := s.apiClient(acc)

	resp, body := s.doRequest(ctx, http.MethodPut, "/profile", map[string]any{
		"currentWeight": 180.0,
		"targetWeight":  170.0,
	}, bearer(acc))
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	dashboard, err := api.DashboardStats(ctx)
	s.Require().NoError(err)
	s.Zero(dashboard.CurrentStreak)
	s.Zero(dashboard.TotalWorkouts)
	s.Zero(dashboard.WeightProgress)

	var workoutIDs []string
	for i := 0; i < 2; i++ {
		resp, body := s.doRequest(ctx, http.MethodPost, "/workouts", map[string]any{
			"name":      "morning run",
			"type":      "cardio",
			"duration":  30,
			"exercises": "5k",
		}, bearer(acc))
		s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

		var added tracker.AddWorkoutResponse
		s.Require().NoError(json.Unmarshal(body, &added))
		s.Equal(acc.login.UserID, added.UserID)
		// two workouts on the same day still count as one streak day
		s.Equal(1, added.CurrentStreak)
		s.Equal(1, added.LongestStreak)
		workoutIDs = append(workoutIDs, added.ID)
	}

	workouts, err := api.ListWorkouts(ctx)
	s.Require().NoError(err)
	s.Require().Len(workouts, 2)
	s.Equal(workoutIDs[1], workouts[0].ID)

	for _, weight := range []float64{180, 178, 175} {
		resp, body := s.doRequest(ctx, http.MethodPost, "/health-metrics", map[string]any{
			"weight":       weight,
			"sleepHours":   7.5,
			"sleepQuality": "good",
			"waterIntake":  2000,
		}, bearer(acc))
		s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
		// keeps created_at strictly ordered
		time.Sleep(5 * time.Millisecond)
	}

	latest, err := api.LatestHealthMetrics(ctx)
	s.Require().NoError(err)
	s.Require().NotNil(latest.Weight)
	s.Equal(175.0, *latest.Weight)

	dashboard, err = api.DashboardStats(ctx)
	s.Require().NoError(err)
	s.Equal(1, dashboard.CurrentStreak)
	s.Equal(1, dashboard.LongestStreak)
	s.Equal(2, dashboard.WeeklyWorkouts)
	s.Equal(2, dashboard.TotalWorkouts)
	s.Equal(-5.0, dashboard.WeightProgress)
	s.Require().NotNil(dashboard.TargetWeight)
	s.Equal(170.0, *dashboard.TargetWeight)

	resp, _ = s.doRequest(ctx, http.MethodDelete, "/workouts/"+workoutIDs[0], nil, bearer(acc))
	s.Equal(http.StatusOK, resp.StatusCode)
	resp, _ = s.doRequest(ctx, http.MethodDelete, "/workouts/"+workoutIDs[0], nil, bearer(acc))
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestOwnershipIsolation() {
	ctx := context.Background()
	owner := s.registerAndLogin(ctx)
	intruder := s.registerAndLogin(ctx)

	resp, body := s.doRequest(ctx, http.MethodPost, "/workouts", map[string]any{
		"name":     "legs",
		"type":     "strength",
		"duration": 45,
	}, bearer(owner))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	var added tracker.AddWorkoutResponse
	s.Require().NoError(json.Unmarshal(body, &added))

	resp, _ = s.doRequest(ctx, http.MethodGet, "/workouts/"+added.ID, nil, bearer(intruder))
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp, _ = s.doRequest(ctx, http.MethodPut, "/workouts/"+added.ID, map[string]any{"name": "mine now"}, bearer(intruder))
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp, _ = s.doRequest(ctx, http.MethodDelete, "/workouts/"+added.ID, nil, bearer(intruder))
	s.Equal(http.StatusNotFound, resp.StatusCode)

	intruderWorkouts, err := s.apiClient(intruder).ListWorkouts(ctx)
	s.Require().NoError(err)
	s.Empty(intruderWorkouts)

	_, err = s.apiClient(intruder).LatestHealthMetrics(ctx)
	s.ErrorIs(err, client.ErrNotFound)
}

func (s *IntegrationTestSuite) TestScheduledWorkouts() {
	ctx := context.Background()
	acc := s.registerAndLogin(ctx)
	api := s.apiClient(acc)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Truncate(time.Second)
	resp, body := s.doRequest(ctx, http.MethodPost, "/scheduled-workouts", map[string]any{
		"name":          "swim",
		"type":          "cardio",
		"duration":      40,
		"scheduledDate": tomorrow,
	}, bearer(acc))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
	var planned ledger.ScheduledWorkout
	s.Require().NoError(json.Unmarshal(body, &planned))
	s.False(planned.Completed)

	resp, body = s.doRequest(ctx, http.MethodPut, "/scheduled-workouts/"+planned.ID, map[string]any{"completed": true}, bearer(acc))
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	list, err := api.ListScheduledWorkouts(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.True(list[0].Completed)
	s.True(tomorrow.Equal(list[0].ScheduledDate))

	// completing a plan does not log a workout
	dashboard, err := api.DashboardStats(ctx)
	s.Require().NoError(err)
	s.Zero(dashboard.TotalWorkouts)
}
