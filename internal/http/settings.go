package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/entities"
)

// SettingsStore is the preferences surface the settings endpoints
// require.
type SettingsStore interface {
	Get() (*entities.UserSettings, error)
	Update(updated entities.UserSettings) (*entities.UserSettings, error)
}

type SettingsController struct {
	store SettingsStore
}

func NewSettingsController(store SettingsStore) *SettingsController {
	return &SettingsController{store: store}
}

// Fields left out of the request keep their stored values, so the
// client can PUT a single toggle without round-tripping the rest.
type updateSettingsRequest struct {
	Theme         *string `json:"theme"`
	CardLayout    *string `json:"card_layout"`
	ShowPriority  *bool   `json:"show_priority"`
	DefaultSort   *string `json:"default_sort"`
	Notifications *bool   `json:"notifications"`
	AutoBackup    *bool   `json:"auto_backup"`
}

// Get handles GET /api/settings.
func (ctrl *SettingsController) Get(c *gin.Context) {
	current, err := ctrl.store.Get()
	if err != nil {
		respondInternalError(c, err, "get settings")
		return
	}
	c.JSON(http.StatusOK, current)
}

// Update handles PUT /api/settings.
func (ctrl *SettingsController) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	current, err := ctrl.store.Get()
	if err != nil {
		respondInternalError(c, err, "get settings")
		return
	}

	next := *current
	if req.Theme != nil {
		next.Theme = *req.Theme
	}
	if req.CardLayout != nil {
		next.CardLayout = *req.CardLayout
	}
	if req.ShowPriority != nil {
		next.ShowPriority = *req.ShowPriority
	}
	if req.DefaultSort != nil {
		next.DefaultSort = *req.DefaultSort
	}
	if req.Notifications != nil {
		next.Notifications = *req.Notifications
	}
	if req.AutoBackup != nil {
		next.AutoBackup = *req.AutoBackup
	}

	saved, err := ctrl.store.Update(next)
	if err != nil {
		respondInternalError(c, err, "update settings")
		return
	}
	c.JSON(http.StatusOK, saved)
}
