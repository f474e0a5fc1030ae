// Package goals provides database operations for reading goals: CRUD,
// progress tracking with target-based auto-completion, and the
// reminder-due check.
package goals

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/entities"
)

// Repository handles all reading goal database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new goals repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NewGoal carries the caller-supplied fields for CreateGoal. StartDate
// defaults to today and EndDate to December 31 of the current year when
// left zero.
type NewGoal struct {
	GoalType      entities.GoalType
	TargetValue   int
	TargetBookID  *uint
	TargetGenreID *uint
	StartDate     time.Time
	EndDate       time.Time
	ReminderFreq  entities.ReminderFrequency
}

// GoalView is a goal augmented with the computed fields the listing
// exposes: days until the deadline (negative when overdue) and percentage
// of the target reached.
type GoalView struct {
	entities.ReadingGoal
	TargetBookTitle string `json:"target_book_title,omitempty"`
	TargetGenreName string `json:"target_genre_name,omitempty"`
	DaysRemaining   int    `json:"days_remaining"`
	Percentage      int    `json:"percentage"`
}

// Reminder is one due notification produced by DueReminders.
type Reminder struct {
	GoalID   uint              `json:"goal_id"`
	GoalType entities.GoalType `json:"goal_type"`
	Message  string            `json:"message"`
}

// CreateGoal inserts a new active goal with zero progress.
func (r *Repository) CreateGoal(fields NewGoal) (*entities.ReadingGoal, error) {
	today := database.Today()
	if fields.StartDate.IsZero() {
		fields.StartDate = today
	}
	if fields.EndDate.IsZero() {
		fields.EndDate = time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	goal := entities.ReadingGoal{
		GoalType:      fields.GoalType,
		TargetValue:   fields.TargetValue,
		TargetBookID:  fields.TargetBookID,
		TargetGenreID: fields.TargetGenreID,
		StartDate:     fields.StartDate,
		EndDate:       fields.EndDate,
		ReminderFreq:  fields.ReminderFreq,
	}
	if err := r.db.Create(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// GetGoal retrieves a goal by id.
func (r *Repository) GetGoal(id uint) (*entities.ReadingGoal, error) {
	var goal entities.ReadingGoal
	if err := r.db.First(&goal, id).Error; err != nil {
		return nil, fmt.Errorf("goal %d: %w", id, err)
	}
	return &goal, nil
}

// ListGoals returns all goals ordered by soonest deadline first, each with
// computed days_remaining and completion percentage.
func (r *Repository) ListGoals() ([]GoalView, error) {
	var rows []entities.ReadingGoal
	err := r.db.
		Preload("TargetBook").
		Preload("TargetGenre").
		Order("end_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	today := database.Today()
	views := make([]GoalView, 0, len(rows))
	for _, goal := range rows {
		view := GoalView{
			ReadingGoal:   goal,
			DaysRemaining: daysBetween(today, goal.EndDate),
			Percentage:    percentage(goal),
		}
		if goal.TargetBook != nil {
			view.TargetBookTitle = goal.TargetBook.Title
		}
		if goal.TargetGenre != nil {
			view.TargetGenreName = goal.TargetGenre.Name
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateGoalProgress applies a progress and/or completion update. With
// both arguments nil the call is a no-op and returns false. When progress
// is supplied without an explicit completed flag, goal types with a
// numeric target derive completion from progress >= target_value; an
// explicit flag always wins.
func (r *Repository) UpdateGoalProgress(id uint, progress *int, completed *bool) (bool, error) {
	if progress == nil && completed == nil {
		return false, nil
	}

	var goal entities.ReadingGoal
	if err := r.db.First(&goal, id).Error; err != nil {
		return false, fmt.Errorf("goal %d: %w", id, err)
	}

	updates := map[string]any{}
	if progress != nil {
		updates["progress"] = *progress
		if completed == nil && goal.GoalType.HasNumericTarget() && goal.TargetValue > 0 {
			updates["completed"] = *progress >= goal.TargetValue
		}
	}
	if completed != nil {
		updates["completed"] = *completed
	}

	if err := r.db.Model(&goal).Updates(updates).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteGoal removes a goal unconditionally.
func (r *Repository) DeleteGoal(id uint) error {
	return r.db.Delete(&entities.ReadingGoal{}, id).Error
}

// DueReminders finds every active goal with a deadline at or after today
// whose reminder cadence has elapsed, stamps its last_reminder_date so the
// same period never fires twice, and returns the generated reminders.
func (r *Repository) DueReminders(today time.Time) ([]Reminder, error) {
	var reminders []Reminder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var goals []entities.ReadingGoal
		err := tx.
			Where("completed = ? AND end_date >= ?", false, today).
			Order("end_date").
			Find(&goals).Error
		if err != nil {
			return err
		}

		for _, goal := range goals {
			if !reminderDue(goal, today) {
				continue
			}
			err := tx.Model(&entities.ReadingGoal{}).
				Where("id = ?", goal.ID).
				Update("last_reminder_date", today).Error
			if err != nil {
				return err
			}
			reminders = append(reminders, Reminder{
				GoalID:   goal.ID,
				GoalType: goal.GoalType,
				Message:  reminderMessage(goal),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func reminderDue(goal entities.ReadingGoal, today time.Time) bool {
	last := goal.LastReminderDate
	if last == nil {
		return true
	}
	switch goal.ReminderFreq {
	case entities.ReminderDaily:
		return last.Before(today)
	case entities.ReminderWeekly:
		return daysBetween(*last, today) >= 7
	case entities.ReminderMonthly:
		return last.Year() != today.Year() || last.Month() != today.Month()
	default:
		return last.Before(today)
	}
}

func reminderMessage(goal entities.ReadingGoal) string {
	deadline := goal.EndDate.Format("January 2")
	switch goal.GoalType {
	case entities.GoalTypeBookCount:
		return fmt.Sprintf("Reading goal: %d of %d books read. Keep going before %s!",
			goal.Progress, goal.TargetValue, deadline)
	case entities.GoalTypePageCount:
		return fmt.Sprintf("Reading goal: %d of %d pages read. Keep going before %s!",
			goal.Progress, goal.TargetValue, deadline)
	case entities.GoalTypeSpecificBook:
		return fmt.Sprintf("Don't forget to finish your book before %s!", deadline)
	case entities.GoalTypeGenreFocus:
		return fmt.Sprintf("Genre goal: %d of %d books read. Keep exploring before %s!",
			goal.Progress, goal.TargetValue, deadline)
	default:
		return fmt.Sprintf("You have a reading goal due %s. Keep reading!", deadline)
	}
}

func percentage(goal entities.ReadingGoal) int {
	if goal.TargetValue > 0 {
		pct := int(math.Round(100 * float64(goal.Progress) / float64(goal.TargetValue)))
		if pct > 100 {
			pct = 100
		}
		return pct
	}
	if goal.Completed {
		return 100
	}
	return 0
}

// daysBetween counts calendar days from a to b; negative when b is
// earlier.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
