// Package settings provides database operations for the user settings
// singleton.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	s, err := repo.Get()
package settings

import (
	"gorm.io/gorm"

	"github.com/readkeep/tbrlist/internal/entities"
)

// Repository handles the user settings singleton row.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func defaults() entities.UserSettings {
	return entities.UserSettings{
		Theme:         "light",
		CardLayout:    "grid",
		ShowPriority:  true,
		DefaultSort:   "priority",
		Notifications: true,
		AutoBackup:    false,
	}
}

// Get returns the settings row, creating it with defaults on first read.
// This is the only place the row is ever created.
func (r *Repository) Get() (*entities.UserSettings, error) {
	var settings entities.UserSettings
	err := r.db.First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = defaults()
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update overwrites the settings row with the supplied values.
func (r *Repository) Update(updated entities.UserSettings) (*entities.UserSettings, error) {
	current, err := r.Get()
	if err != nil {
		return nil, err
	}

	updated.ID = current.ID
	// Select("*") so false booleans are persisted too.
	if err := r.db.Model(current).Select("*").Omit("id").Updates(updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}
