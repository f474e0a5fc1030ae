package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readkeep/tbrlist/internal/config"
	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/database/books"
	"github.com/readkeep/tbrlist/internal/database/goals"
	"github.com/readkeep/tbrlist/internal/database/settings"
	"github.com/readkeep/tbrlist/internal/database/stats"
	http_controllers "github.com/readkeep/tbrlist/internal/http"
	"github.com/readkeep/tbrlist/internal/importers"
	"github.com/readkeep/tbrlist/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// SIGKILL cannot be caught, so only INT and TERM are handled.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting TBR List v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	goalRepo := goals.NewRepository(db.DB)
	statsRepo := stats.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)
	importer := importers.NewImporter(bookRepo)

	sched := scheduler.New(scheduler.Config{
		RemindersEnabled: cfg.Reminders.Enabled,
		ReminderSchedule: cfg.Reminders.Schedule,
		BackupSchedule:   cfg.Backup.Schedule,
		DBPath:           cfg.Database.Path,
		BackupDir:        cfg.Backup.Dir,
	}, goalRepo, settingsRepo)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		BookStore:     bookRepo,
		GoalStore:     goalRepo,
		StatsStore:    statsRepo,
		SettingsStore: settingsRepo,
		Importer:      importer,
		Database:      db,
		DBPath:        cfg.Database.Path,
		BackupDir:     cfg.Backup.Dir,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		sched.Stop(ctx)
	}

	Serve(router, cfg, onShutdown)
}
