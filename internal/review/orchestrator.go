package review

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/recallbot/internal/spaced_repetition"
	"github.com/example/recallbot/pkg/models"
)

// Repository is the storage boundary for a review pass
type Repository interface {
	// FindDueScheduledItems returns all items with next_review_date <= now
	FindDueScheduledItems(ctx context.Context, now time.Time) ([]models.ScheduledItem, error)
	// UpdateScheduledItemSchedule persists a new interval and review date for an item
	UpdateScheduledItemSchedule(ctx context.Context, id int64, interval int, nextReview time.Time) error
	// FindLearner returns nil without error when the learner does not exist
	FindLearner(ctx context.Context, id int64) (*models.Learner, error)
	// FindWord returns nil without error when the word does not exist
	FindWord(ctx context.Context, id int64) (*models.Word, error)
}

// Notifier delivers review prompts to learners
type Notifier interface {
	Prompt(learner *models.Learner, word *models.Word) error
}

// PassResult reports the outcome of one review pass
type PassResult struct {
	Processed int // due items attempted
	Failures  int // items whose processing failed
	Skipped   int // items with a missing learner or word
}

// Orchestrator runs review passes over the currently due items
type Orchestrator struct {
	repo     Repository
	notifier Notifier
	policy   *spaced_repetition.Policy
}

// New creates an orchestrator with the given collaborators
func New(repo Repository, notifier Notifier, policy *spaced_repetition.Policy) *Orchestrator {
	return &Orchestrator{
		repo:     repo,
		notifier: notifier,
		policy:   policy,
	}
}

// RunReviewPass processes every scheduled item due at the given time.
// Items are handled independently: a missing learner or word skips the
// item, a failed prompt delivery is logged but the schedule still
// advances (the item was already due), and a failed schedule update is
// counted without stopping the pass. Only a failure of the due query
// itself aborts the pass.
func (o *Orchestrator) RunReviewPass(ctx context.Context, now time.Time) (PassResult, error) {
	var result PassResult

	items, err := o.repo.FindDueScheduledItems(ctx, now)
	if err != nil {
		return result, fmt.Errorf("failed to query due items: %v", err)
	}

	for _, item := range items {
		result.Processed++

		learner, err := o.repo.FindLearner(ctx, item.LearnerID)
		if err != nil {
			result.Failures++
			log.Printf("Error resolving learner %d for item %d: %v", item.LearnerID, item.ID, err)
			continue
		}
		word, err := o.repo.FindWord(ctx, item.WordID)
		if err != nil {
			result.Failures++
			log.Printf("Error resolving word %d for item %d: %v", item.WordID, item.ID, err)
			continue
		}
		if learner == nil || word == nil {
			// Orphaned item: the learner or word was removed elsewhere
			result.Skipped++
			continue
		}

		if err := o.notifier.Prompt(learner, word); err != nil {
			// The learner misses this prompt but the schedule still
			// moves forward
			log.Printf("Error prompting learner %d for item %d: %v", learner.ID, item.ID, err)
		}

		interval := o.policy.NextInterval(item.Interval)
		nextReview := now.AddDate(0, 0, interval)
		if err := o.repo.UpdateScheduledItemSchedule(ctx, item.ID, interval, nextReview); err != nil {
			result.Failures++
			log.Printf("Error updating schedule for item %d: %v", item.ID, err)
			continue
		}
	}

	return result, nil
}
