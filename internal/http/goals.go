package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/database/goals"
	"github.com/readkeep/tbrlist/internal/entities"
)

// GoalStore is the goal-tracking surface the goal endpoints require.
type GoalStore interface {
	CreateGoal(fields goals.NewGoal) (*entities.ReadingGoal, error)
	ListGoals() ([]goals.GoalView, error)
	UpdateGoalProgress(id uint, progress *int, completed *bool) (bool, error)
	DeleteGoal(id uint) error
	DueReminders(today time.Time) ([]goals.Reminder, error)
}

type GoalsController struct {
	store GoalStore
}

func NewGoalsController(store GoalStore) *GoalsController {
	return &GoalsController{store: store}
}

type createGoalRequest struct {
	GoalType      string `json:"goal_type" binding:"required"`
	TargetValue   int    `json:"target_value"`
	TargetBookID  *uint  `json:"target_book_id"`
	TargetGenreID *uint  `json:"target_genre_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	ReminderFreq  string `json:"reminder_frequency"`
}

type updateGoalRequest struct {
	Progress  *int  `json:"progress"`
	Completed *bool `json:"completed"`
}

var validGoalTypes = map[entities.GoalType]bool{
	entities.GoalTypeBookCount:    true,
	entities.GoalTypePageCount:    true,
	entities.GoalTypeSpecificBook: true,
	entities.GoalTypeGenreFocus:   true,
}

// CreateGoal handles POST /api/goal.
func (ctrl *GoalsController) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "goal_type is required")
		return
	}
	goalType := entities.GoalType(req.GoalType)
	if !validGoalTypes[goalType] {
		respondBadRequest(c, "unknown goal_type")
		return
	}
	if goalType.HasNumericTarget() && req.TargetValue <= 0 {
		respondBadRequest(c, "target_value must be positive")
		return
	}
	if goalType == entities.GoalTypeSpecificBook && req.TargetBookID == nil {
		respondBadRequest(c, "target_book_id is required for specific_book goals")
		return
	}
	if goalType == entities.GoalTypeGenreFocus && req.TargetGenreID == nil {
		respondBadRequest(c, "target_genre_id is required for genre_focus goals")
		return
	}

	startDate, ok := parseDateField(c, "start_date", req.StartDate)
	if !ok {
		return
	}
	endDate, ok := parseDateField(c, "end_date", req.EndDate)
	if !ok {
		return
	}
	if !startDate.IsZero() && !endDate.IsZero() && endDate.Before(startDate) {
		respondBadRequest(c, "end_date must not be before start_date")
		return
	}

	goal, err := ctrl.store.CreateGoal(goals.NewGoal{
		GoalType:      goalType,
		TargetValue:   req.TargetValue,
		TargetBookID:  req.TargetBookID,
		TargetGenreID: req.TargetGenreID,
		StartDate:     startDate,
		EndDate:       endDate,
		ReminderFreq:  entities.ReminderFrequency(req.ReminderFreq),
	})
	if err != nil {
		respondInternalError(c, err, "create goal")
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// ListGoals handles GET /api/goals.
func (ctrl *GoalsController) ListGoals(c *gin.Context) {
	views, err := ctrl.store.ListGoals()
	if err != nil {
		respondInternalError(c, err, "list goals")
		return
	}
	c.JSON(http.StatusOK, views)
}

// UpdateGoal handles PUT /api/goal/:id.
func (ctrl *GoalsController) UpdateGoal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	changed, err := ctrl.store.UpdateGoalProgress(id, req.Progress, req.Completed)
	if err != nil {
		respondStoreError(c, err, "goal")
		return
	}
	if !changed {
		respondBadRequest(c, "nothing to update")
		return
	}
	respondSuccess(c, "goal updated")
}

// DeleteGoal handles DELETE /api/goal/:id.
func (ctrl *GoalsController) DeleteGoal(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.store.DeleteGoal(id); err != nil {
		respondStoreError(c, err, "goal")
		return
	}
	respondSuccess(c, "goal deleted")
}

// CheckReminders handles POST /api/goals/reminders/check. It collects
// every reminder due today and marks them delivered.
func (ctrl *GoalsController) CheckReminders(c *gin.Context) {
	reminders, err := ctrl.store.DueReminders(database.Today())
	if err != nil {
		respondInternalError(c, err, "check reminders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// parseDateField parses an optional "2006-01-02" field; empty means
// unset.
func parseDateField(c *gin.Context, name, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		respondBadRequest(c, name+" must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return parsed, true
}
