package entities

import (
	"time"
)

// Reading status ids are fixed at initialization and never created or
// edited by normal flow.
const (
	StatusCompleted        uint = 1
	StatusCurrentlyReading uint = 2
	StatusToRead           uint = 3
	StatusDidNotFinish     uint = 4
)

// DefaultPriority is the mid-scale urgency assigned when a book is added
// without an explicit priority.
const DefaultPriority = 5

type GoalType string

const (
	GoalTypeBookCount    GoalType = "book_count"
	GoalTypePageCount    GoalType = "page_count"
	GoalTypeSpecificBook GoalType = "specific_book"
	GoalTypeGenreFocus   GoalType = "genre_focus"
)

// HasNumericTarget reports whether progress against target_value can
// auto-complete a goal of this type.
func (t GoalType) HasNumericTarget() bool {
	return t != GoalTypeSpecificBook
}

type ReminderFrequency string

const (
	ReminderDaily   ReminderFrequency = "daily"
	ReminderWeekly  ReminderFrequency = "weekly"
	ReminderMonthly ReminderFrequency = "monthly"
)

type Author struct {
	ID   uint   `gorm:"primaryKey" json:"author_id"`
	Name string `gorm:"uniqueIndex;size:256" json:"name"`
}

type Genre struct {
	ID       uint   `gorm:"primaryKey" json:"genre_id"`
	Name     string `gorm:"uniqueIndex;size:100" json:"genre"`
	Category string `gorm:"size:100" json:"category,omitempty"`
}

type Book struct {
	ID       uint   `gorm:"primaryKey" json:"book_id"`
	Title    string `gorm:"index;size:512" json:"title"`
	AuthorID uint   `gorm:"index" json:"author_id"`
	GenreID  uint   `gorm:"index" json:"genre_id"`

	// Zero means unset for all three.
	PageCount       int `json:"page_count,omitempty"`
	PublicationYear int `json:"publication_year,omitempty"`
	Rating          int `json:"rating,omitempty"`

	Author Author `gorm:"foreignKey:AuthorID" json:"-"`
	Genre  Genre  `gorm:"foreignKey:GenreID" json:"-"`
}

// TBREntry tracks a book's membership in the reading queue. Exactly one
// entry exists per book; both are created and deleted together.
type TBREntry struct {
	ID            uint       `gorm:"primaryKey" json:"tbr_id"`
	BookID        uint       `gorm:"index" json:"book_id"`
	StatusID      uint       `gorm:"index" json:"status_id"`
	Priority      int        `gorm:"default:5" json:"priority"`
	DateAdded     time.Time  `json:"date_added"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`

	Book   Book          `gorm:"foreignKey:BookID" json:"-"`
	Status ReadingStatus `gorm:"foreignKey:StatusID" json:"-"`
}

type ReadingStatus struct {
	ID   uint   `gorm:"primaryKey" json:"status_id"`
	Name string `gorm:"uniqueIndex;size:50" json:"status"`
}

// UserSettings is a singleton row, auto-created with defaults on first read.
type UserSettings struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Theme         string `gorm:"size:20" json:"theme"`
	CardLayout    string `gorm:"size:20" json:"card_layout"`
	ShowPriority  bool   `json:"show_priority"`
	DefaultSort   string `gorm:"size:20" json:"default_sort"`
	Notifications bool   `json:"notifications"`
	AutoBackup    bool   `json:"auto_backup"`
}

type ReadingGoal struct {
	ID               uint              `gorm:"primaryKey" json:"goal_id"`
	GoalType         GoalType          `gorm:"size:20;index" json:"goal_type"`
	TargetValue      int               `json:"target_value,omitempty"`
	TargetBookID     *uint             `json:"target_book_id,omitempty"`
	TargetGenreID    *uint             `json:"target_genre_id,omitempty"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `gorm:"index" json:"end_date"`
	Progress         int               `gorm:"default:0" json:"progress"`
	Completed        bool              `gorm:"default:false" json:"completed"`
	ReminderFreq     ReminderFrequency `gorm:"column:reminder_frequency;size:10" json:"reminder_frequency,omitempty"`
	LastReminderDate *time.Time        `json:"last_reminder_date,omitempty"`

	TargetBook  *Book  `gorm:"foreignKey:TargetBookID" json:"-"`
	TargetGenre *Genre `gorm:"foreignKey:TargetGenreID" json:"-"`
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (TBREntry) TableName() string {
	return "tbr_list"
}

func (ReadingStatus) TableName() string {
	return "reading_statuses"
}

func (UserSettings) TableName() string {
	return "user_settings"
}

func (ReadingGoal) TableName() string {
	return "reading_goals"
}
