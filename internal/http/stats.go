package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/database/stats"
)

// StatsStore is the reporting surface the stats endpoints require.
type StatsStore interface {
	Summarize(today time.Time) (*stats.Summary, error)
	Recommend() (*stats.Recommendations, error)
}

type StatsController struct {
	store StatsStore
}

func NewStatsController(store StatsStore) *StatsController {
	return &StatsController{store: store}
}

// Summary handles GET /api/stats.
func (ctrl *StatsController) Summary(c *gin.Context) {
	summary, err := ctrl.store.Summarize(database.Today())
	if err != nil {
		respondInternalError(c, err, "stats summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Recommendations handles GET /api/recommendations.
func (ctrl *StatsController) Recommendations(c *gin.Context) {
	recs, err := ctrl.store.Recommend()
	if err != nil {
		respondInternalError(c, err, "recommendations")
		return
	}
	c.JSON(http.StatusOK, recs)
}
