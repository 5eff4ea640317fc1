package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabengine/internal/engine"
	"github.com/example/vocabengine/pkg/models"
)

// Default notification window
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier delivers daily digests to the learner
type Notifier interface {
	SendDigest(recommendations []models.Recommendation, dueCount int) error
}

// Scheduler manages the periodic analysis pass and review reminders
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    *engine.Engine
	notifier  Notifier
}

// New creates a new scheduler instance
func New(eng *engine.Engine, notifier Notifier) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		engine:    eng,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Aggregates tolerate staleness, so an hourly recompute is plenty
	s.scheduler.Every(1).Hour().Do(s.runAnalysis)
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunAnalysisNow forces an immediate analysis pass
func (s *Scheduler) RunAnalysisNow() error {
	return s.engine.RunAnalysis(time.Now())
}

func (s *Scheduler) runAnalysis() {
	if err := s.engine.RunAnalysis(time.Now()); err != nil {
		log.Printf("Error running analysis pass: %v", err)
	}
}

// checkAndSendReminders sends a digest when reviews are due and the clock
// is inside the notification window.
func (s *Scheduler) checkAndSendReminders() {
	now := time.Now()
	currentHour := now.Hour()

	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, startHour, endHour)
		return
	}

	dueCount, err := s.engine.DueCount(now)
	if err != nil {
		log.Printf("Error counting due cards: %v", err)
		return
	}
	if dueCount == 0 {
		return
	}

	recommendations, err := s.engine.DailyDigest(now)
	if err != nil {
		log.Printf("Error building daily digest: %v", err)
		return
	}

	if err := s.notifier.SendDigest(recommendations, dueCount); err != nil {
		log.Printf("Error sending digest: %v", err)
	}
}

// envHour reads an hour setting from the environment with a fallback.
func envHour(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
