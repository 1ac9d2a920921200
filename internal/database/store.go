package database

import (
	"context"
	"time"

	"github.com/example/recallbot/pkg/models"
)

// Store aggregates the repositories behind the review boundary so the
// orchestrator can take a single dependency
type Store struct {
	Items    *ScheduledItemRepository
	Learners *LearnerRepository
	Words    *WordRepository
	Streaks  *StreakRepository
}

// NewStore creates a store over the global connection
func NewStore() *Store {
	return &Store{
		Items:    NewScheduledItemRepository(),
		Learners: NewLearnerRepository(),
		Words:    NewWordRepository(),
		Streaks:  NewStreakRepository(),
	}
}

// FindDueScheduledItems returns all items with next_review_date <= now
func (s *Store) FindDueScheduledItems(ctx context.Context, now time.Time) ([]models.ScheduledItem, error) {
	return s.Items.FindDue(ctx, now)
}

// UpdateScheduledItemSchedule persists a new interval and review date
func (s *Store) UpdateScheduledItemSchedule(ctx context.Context, id int64, interval int, nextReview time.Time) error {
	return s.Items.UpdateSchedule(ctx, id, interval, nextReview)
}

// FindLearner returns nil without error when the learner does not exist
func (s *Store) FindLearner(ctx context.Context, id int64) (*models.Learner, error) {
	return s.Learners.GetByID(ctx, id)
}

// FindWord returns nil without error when the word does not exist
func (s *Store) FindWord(ctx context.Context, id int64) (*models.Word, error) {
	return s.Words.GetByID(ctx, id)
}
