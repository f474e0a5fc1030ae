package http

import (
	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/database"
)

// RouterConfig carries every dependency the router needs, so NewRouter
// stays a single-argument constructor.
type RouterConfig struct {
	BookStore     BookStore
	GoalStore     GoalStore
	StatsStore    StatsStore
	SettingsStore SettingsStore
	Importer      JournalImporter

	Database  *database.Database
	DBPath    string
	BackupDir string
	Version   string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	books := NewBooksController(cfg.BookStore)
	goals := NewGoalsController(cfg.GoalStore)
	stats := NewStatsController(cfg.StatsStore)
	settings := NewSettingsController(cfg.SettingsStore)
	transfer := NewTransferController(cfg.BookStore, cfg.Importer, cfg.DBPath, cfg.BackupDir)
	health := NewHealthController(cfg.Database, cfg.Version)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.POST("/book", books.AddBook)
		api.PUT("/book/:id", books.UpdateBook)
		api.DELETE("/book/:id", books.DeleteBook)
		api.GET("/tbr", books.ListTBR)
		api.GET("/search", books.Search)
		api.PUT("/status", books.UpdateStatus)
		api.PUT("/rating", books.UpdateRating)
		api.POST("/clear_tbr", books.ClearTBR)
		api.GET("/authors", books.ListAuthors)
		api.GET("/genres", books.ListGenres)
		api.GET("/statuses", books.ListStatuses)

		api.POST("/goal", goals.CreateGoal)
		api.GET("/goals", goals.ListGoals)
		api.PUT("/goal/:id", goals.UpdateGoal)
		api.DELETE("/goal/:id", goals.DeleteGoal)
		api.POST("/goals/reminders/check", goals.CheckReminders)

		api.GET("/stats", stats.Summary)
		api.GET("/recommendations", stats.Recommendations)

		api.GET("/settings", settings.Get)
		api.PUT("/settings", settings.Update)

		api.GET("/export", transfer.Export)
		api.POST("/import", transfer.Import)
		api.POST("/backup", transfer.Backup)
	}

	return router
}
