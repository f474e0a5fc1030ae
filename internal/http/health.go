package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/database"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

// Status handles GET /health. A failed database ping turns the report
// unhealthy with a 503.
func (h *HealthController) Status(c *gin.Context) {
	dbCheck := "ok"
	if err := h.pingDatabase(); err != nil {
		dbCheck = "error: " + err.Error()
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbCheck != "ok" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:   status,
		Time:     time.Now().Format(time.RFC3339),
		Version:  h.version,
		Database: dbCheck,
	})
}

func (h *HealthController) pingDatabase() error {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
