package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/recallbot/internal/review"
	"github.com/go-co-op/gocron"
)

// Default window during which review prompts may be sent
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Runner drives review passes and daily word serving
type Runner interface {
	RunReviewPass(ctx context.Context, now time.Time) (review.PassResult, error)
	ServeNewWords(ctx context.Context, now time.Time) error
}

// Scheduler manages the periodic jobs of the bot
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
}

// New creates a new scheduler instance
func New(runner Runner) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		runner:    runner,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly review pass over due items, daily serving of new words
	s.scheduler.Every(1).Hour().Do(s.runReviewPass)
	s.scheduler.Every(1).Day().At("09:00").Do(s.serveNewWords)

	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runReviewPass executes one review pass if the current hour is inside
// the notification window
func (s *Scheduler) runReviewPass() {
	now := time.Now()
	currentHour := now.Hour()
	startHour, endHour := notificationWindow()

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping review pass",
			currentHour, startHour, endHour)
		return
	}

	result, err := s.runner.RunReviewPass(context.Background(), now)
	if err != nil {
		log.Printf("Error running review pass: %v", err)
		return
	}
	log.Printf("Review pass finished: processed=%d failures=%d skipped=%d",
		result.Processed, result.Failures, result.Skipped)
}

// serveNewWords runs the daily word serving job
func (s *Scheduler) serveNewWords() {
	if err := s.runner.ServeNewWords(context.Background(), time.Now()); err != nil {
		log.Printf("Error serving new words: %v", err)
	}
}

// notificationWindow returns the configured notification hours, falling
// back to the defaults
func notificationWindow() (int, int) {
	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	return startHour, endHour
}
