package goals

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_goals_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db.DB)
	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return repo, cleanup
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateGoal(t *testing.T) {
	t.Run("fills default dates", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{
			GoalType:    entities.GoalTypeBookCount,
			TargetValue: 24,
		})
		require.NoError(t, err)
		assert.NotZero(t, goal.ID)

		today := database.Today()
		assert.Equal(t, today, goal.StartDate)
		assert.Equal(t, date(today.Year(), time.December, 31), goal.EndDate)
		assert.Zero(t, goal.Progress)
		assert.False(t, goal.Completed)
	})

	t.Run("keeps explicit dates", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{
			GoalType:     entities.GoalTypePageCount,
			TargetValue:  5000,
			StartDate:    date(2026, time.March, 1),
			EndDate:      date(2026, time.June, 30),
			ReminderFreq: entities.ReminderWeekly,
		})
		require.NoError(t, err)
		assert.Equal(t, date(2026, time.March, 1), goal.StartDate)
		assert.Equal(t, date(2026, time.June, 30), goal.EndDate)
	})
}

func TestListGoals(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	later, err := repo.CreateGoal(NewGoal{
		GoalType:    entities.GoalTypeBookCount,
		TargetValue: 10,
		EndDate:     database.Today().AddDate(0, 2, 0),
	})
	require.NoError(t, err)
	sooner, err := repo.CreateGoal(NewGoal{
		GoalType:    entities.GoalTypePageCount,
		TargetValue: 1000,
		EndDate:     database.Today().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	_, err = repo.UpdateGoalProgress(sooner.ID, intPtr(250), nil)
	require.NoError(t, err)

	views, err := repo.ListGoals()
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Soonest deadline first.
	assert.Equal(t, sooner.ID, views[0].ID)
	assert.Equal(t, later.ID, views[1].ID)

	assert.Equal(t, 25, views[0].Percentage)
	assert.Equal(t, 0, views[1].Percentage)
	assert.Greater(t, views[1].DaysRemaining, views[0].DaysRemaining)
}

func TestUpdateGoalProgress(t *testing.T) {
	t.Run("no fields is a no-op", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{GoalType: entities.GoalTypeBookCount, TargetValue: 12})
		require.NoError(t, err)

		changed, err := repo.UpdateGoalProgress(goal.ID, nil, nil)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("derives completion from numeric target", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{GoalType: entities.GoalTypeBookCount, TargetValue: 12})
		require.NoError(t, err)

		changed, err := repo.UpdateGoalProgress(goal.ID, intPtr(11), nil)
		require.NoError(t, err)
		assert.True(t, changed)

		current, err := repo.GetGoal(goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 11, current.Progress)
		assert.False(t, current.Completed)

		_, err = repo.UpdateGoalProgress(goal.ID, intPtr(12), nil)
		require.NoError(t, err)

		current, err = repo.GetGoal(goal.ID)
		require.NoError(t, err)
		assert.True(t, current.Completed)
	})

	t.Run("explicit completed flag wins", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{GoalType: entities.GoalTypeBookCount, TargetValue: 12})
		require.NoError(t, err)

		_, err = repo.UpdateGoalProgress(goal.ID, intPtr(12), boolPtr(false))
		require.NoError(t, err)

		current, err := repo.GetGoal(goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, current.Progress)
		assert.False(t, current.Completed)
	})

	t.Run("zero target never auto-completes", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{GoalType: entities.GoalTypeBookCount})
		require.NoError(t, err)

		_, err = repo.UpdateGoalProgress(goal.ID, intPtr(3), nil)
		require.NoError(t, err)

		current, err := repo.GetGoal(goal.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, current.Progress)
		assert.False(t, current.Completed)
	})

	t.Run("specific_book goals never auto-complete", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{GoalType: entities.GoalTypeSpecificBook})
		require.NoError(t, err)

		_, err = repo.UpdateGoalProgress(goal.ID, intPtr(1), nil)
		require.NoError(t, err)

		current, err := repo.GetGoal(goal.ID)
		require.NoError(t, err)
		assert.False(t, current.Completed)

		_, err = repo.UpdateGoalProgress(goal.ID, nil, boolPtr(true))
		require.NoError(t, err)

		current, err = repo.GetGoal(goal.ID)
		require.NoError(t, err)
		assert.True(t, current.Completed)
	})

	t.Run("missing goal returns not found", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := repo.UpdateGoalProgress(9999, intPtr(1), nil)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestDeleteGoal(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	goal, err := repo.CreateGoal(NewGoal{GoalType: entities.GoalTypeBookCount, TargetValue: 5})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteGoal(goal.ID))

	_, err = repo.GetGoal(goal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDueReminders(t *testing.T) {
	today := date(2026, time.August, 28)

	t.Run("fires for goals never reminded", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		goal, err := repo.CreateGoal(NewGoal{
			GoalType:     entities.GoalTypeBookCount,
			TargetValue:  24,
			EndDate:      today.AddDate(0, 1, 0),
			ReminderFreq: entities.ReminderDaily,
		})
		require.NoError(t, err)

		reminders, err := repo.DueReminders(today)
		require.NoError(t, err)
		require.Len(t, reminders, 1)
		assert.Equal(t, goal.ID, reminders[0].GoalID)
		assert.Contains(t, reminders[0].Message, "0 of 24 books")

		// The same day never fires twice.
		reminders, err = repo.DueReminders(today)
		require.NoError(t, err)
		assert.Empty(t, reminders)

		// The next day fires again for a daily cadence.
		reminders, err = repo.DueReminders(today.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, reminders, 1)
	})

	t.Run("weekly cadence waits seven days", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := repo.CreateGoal(NewGoal{
			GoalType:     entities.GoalTypePageCount,
			TargetValue:  5000,
			EndDate:      today.AddDate(0, 3, 0),
			ReminderFreq: entities.ReminderWeekly,
		})
		require.NoError(t, err)

		reminders, err := repo.DueReminders(today)
		require.NoError(t, err)
		require.Len(t, reminders, 1)

		reminders, err = repo.DueReminders(today.AddDate(0, 0, 6))
		require.NoError(t, err)
		assert.Empty(t, reminders)

		reminders, err = repo.DueReminders(today.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.Len(t, reminders, 1)
	})

	t.Run("monthly cadence fires once per calendar month", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		_, err := repo.CreateGoal(NewGoal{
			GoalType:     entities.GoalTypeBookCount,
			TargetValue:  24,
			EndDate:      date(2026, time.December, 31),
			ReminderFreq: entities.ReminderMonthly,
		})
		require.NoError(t, err)

		reminders, err := repo.DueReminders(date(2026, time.January, 5))
		require.NoError(t, err)
		require.Len(t, reminders, 1)

		// Still January, even 26 days later: same calendar month, not due.
		reminders, err = repo.DueReminders(date(2026, time.January, 31))
		require.NoError(t, err)
		assert.Empty(t, reminders)

		// One day on, but a new month.
		reminders, err = repo.DueReminders(date(2026, time.February, 1))
		require.NoError(t, err)
		assert.Len(t, reminders, 1)
	})

	t.Run("skips completed and expired goals", func(t *testing.T) {
		repo, cleanup := setupTestDB(t)
		defer cleanup()

		done, err := repo.CreateGoal(NewGoal{
			GoalType:    entities.GoalTypeBookCount,
			TargetValue: 1,
			EndDate:     today.AddDate(0, 1, 0),
		})
		require.NoError(t, err)
		_, err = repo.UpdateGoalProgress(done.ID, intPtr(1), nil)
		require.NoError(t, err)

		_, err = repo.CreateGoal(NewGoal{
			GoalType:    entities.GoalTypeBookCount,
			TargetValue: 10,
			StartDate:   today.AddDate(0, -2, 0),
			EndDate:     today.AddDate(0, 0, -1),
		})
		require.NoError(t, err)

		reminders, err := repo.DueReminders(today)
		require.NoError(t, err)
		assert.Empty(t, reminders)
	})
}
