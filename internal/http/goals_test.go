package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readkeep/tbrlist/internal/database/goals"
	"github.com/readkeep/tbrlist/internal/entities"
)

func TestGoalsController_CreateGoal(t *testing.T) {
	t.Run("creates a book count goal", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.request(t, "POST", "/api/goal",
			`{"goal_type": "book_count", "target_value": 24, "reminder_frequency": "weekly"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		var goal entities.ReadingGoal
		decodeJSON(t, w, &goal)
		assert.NotZero(t, goal.ID)
		assert.Equal(t, entities.GoalTypeBookCount, goal.GoalType)
		assert.Equal(t, 24, goal.TargetValue)
	})

	t.Run("rejects unknown goal type", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.request(t, "POST", "/api/goal", `{"goal_type": "vibes"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects numeric goal without target", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.request(t, "POST", "/api/goal", `{"goal_type": "page_count"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects specific_book goal without book", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.request(t, "POST", "/api/goal", `{"goal_type": "specific_book"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.request(t, "POST", "/api/goal",
			`{"goal_type": "book_count", "target_value": 5, "end_date": "soon"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.request(t, "POST", "/api/goal",
			`{"goal_type": "book_count", "target_value": 5, "start_date": "2026-06-01", "end_date": "2026-05-01"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGoalsController_ListGoals(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.request(t, "POST", "/api/goal",
		`{"goal_type": "book_count", "target_value": 10}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, "GET", "/api/goals", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var views []goals.GoalView
	decodeJSON(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, 0, views[0].Percentage)
}

func TestGoalsController_UpdateGoal(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.request(t, "POST", "/api/goal",
		`{"goal_type": "book_count", "target_value": 2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var goal entities.ReadingGoal
	decodeJSON(t, w, &goal)

	w = app.request(t, "PUT", "/api/goal/"+jsonUint(goal.ID), `{"progress": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, "GET", "/api/goals", "")
	var views []goals.GoalView
	decodeJSON(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, 2, views[0].Progress)
	assert.True(t, views[0].Completed)
	assert.Equal(t, 100, views[0].Percentage)

	t.Run("empty update is a 400", func(t *testing.T) {
		w := app.request(t, "PUT", "/api/goal/"+jsonUint(goal.ID), `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown goal is a 404", func(t *testing.T) {
		w := app.request(t, "PUT", "/api/goal/9999", `{"progress": 1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGoalsController_DeleteGoal(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.request(t, "POST", "/api/goal",
		`{"goal_type": "book_count", "target_value": 2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var goal entities.ReadingGoal
	decodeJSON(t, w, &goal)

	w = app.request(t, "DELETE", "/api/goal/"+jsonUint(goal.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, "GET", "/api/goals", "")
	var views []goals.GoalView
	decodeJSON(t, w, &views)
	assert.Empty(t, views)
}

func TestGoalsController_CheckReminders(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	w := app.request(t, "POST", "/api/goal",
		`{"goal_type": "book_count", "target_value": 12, "reminder_frequency": "daily"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.request(t, "POST", "/api/goals/reminders/check", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Reminders []goals.Reminder `json:"reminders"`
	}
	decodeJSON(t, w, &response)
	require.Len(t, response.Reminders, 1)
	assert.Contains(t, response.Reminders[0].Message, "0 of 12 books")

	// Second check the same day finds nothing due.
	w = app.request(t, "POST", "/api/goals/reminders/check", "")
	decodeJSON(t, w, &response)
	assert.Empty(t, response.Reminders)
}
