// Package scheduler runs the periodic housekeeping jobs: goal reminder
// checks and automatic database backups.
package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/readkeep/tbrlist/internal/backup"
	"github.com/readkeep/tbrlist/internal/database"
	"github.com/readkeep/tbrlist/internal/database/goals"
	"github.com/readkeep/tbrlist/internal/database/settings"
)

// Config selects which jobs run and on what cron schedules.
type Config struct {
	RemindersEnabled bool
	ReminderSchedule string
	BackupSchedule   string
	DBPath           string
	BackupDir        string
}

// Scheduler owns the cron runner. Reminder checks fire on the reminder
// schedule; backups fire on the backup schedule but only when the
// stored auto_backup setting is on, so the toggle takes effect without
// a restart.
type Scheduler struct {
	cfg      Config
	goals    *goals.Repository
	settings *settings.Repository

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func New(cfg Config, goalRepo *goals.Repository, settingsRepo *settings.Repository) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		goals:    goalRepo,
		settings: settingsRepo,
		cron:     cron.New(),
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.RemindersEnabled {
		if _, err := s.cron.AddFunc(s.cfg.ReminderSchedule, s.runReminderCheck); err != nil {
			return err
		}
		log.Printf("Scheduler: reminder checks on %q", s.cfg.ReminderSchedule)
	}
	if _, err := s.cron.AddFunc(s.cfg.BackupSchedule, s.runBackup); err != nil {
		return err
	}
	log.Printf("Scheduler: backups on %q", s.cfg.BackupSchedule)

	s.cron.Start()
	s.isRunning = true
	return nil
}

// Stop halts the cron loop, waiting for a running job until ctx
// expires.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
	s.isRunning = false
}

func (s *Scheduler) runReminderCheck() {
	reminders, err := s.goals.DueReminders(database.Today())
	if err != nil {
		log.Printf("Scheduler: reminder check failed: %v", err)
		return
	}
	for _, reminder := range reminders {
		log.Printf("Reminder (goal %d): %s", reminder.GoalID, reminder.Message)
	}
}

func (s *Scheduler) runBackup() {
	current, err := s.settings.Get()
	if err != nil {
		log.Printf("Scheduler: could not read settings: %v", err)
		return
	}
	if !current.AutoBackup {
		return
	}
	path, err := backup.Snapshot(s.cfg.DBPath, s.cfg.BackupDir)
	if err != nil {
		log.Printf("Scheduler: backup failed: %v", err)
		return
	}
	log.Printf("Scheduler: database backed up to %s", path)
}
