package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readkeep/tbrlist/internal/entities"
)

// The status lookup set is fixed; ids are referenced throughout the
// codebase and must stay stable across restarts.
var defaultStatuses = []entities.ReadingStatus{
	{ID: entities.StatusCompleted, Name: "Completed"},
	{ID: entities.StatusCurrentlyReading, Name: "Currently Reading"},
	{ID: entities.StatusToRead, Name: "To Read"},
	{ID: entities.StatusDidNotFinish, Name: "Did Not Finish"},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.ReadingStatus{},
		&entities.TBREntry{},
		&entities.UserSettings{},
		&entities.ReadingGoal{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedStatuses(); err != nil {
		return nil, fmt.Errorf("failed to seed reading statuses: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedStatuses() error {
	for _, status := range defaultStatuses {
		var existing entities.ReadingStatus
		result := d.DB.Where("id = ?", status.ID).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&status).Error; err != nil {
				return fmt.Errorf("failed to create status %s: %w", status.Name, err)
			}
			log.Printf("Created reading status: %s", status.Name)
		}
	}
	return nil
}

// Today returns the current calendar date with no time component. All
// date_added/date_completed/reminder bookkeeping uses this granularity.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
