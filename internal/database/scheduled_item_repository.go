package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/recallbot/pkg/models"
)

// ScheduledItemRepository handles database operations for scheduled items
type ScheduledItemRepository struct{}

// NewScheduledItemRepository creates a new repository instance
func NewScheduledItemRepository() *ScheduledItemRepository {
	return &ScheduledItemRepository{}
}

// Create inserts a new scheduled item
func (r *ScheduledItemRepository) Create(ctx context.Context, item *models.ScheduledItem) error {
	if Type() == "postgres" {
		query := `
			INSERT INTO scheduled_items (
				learner_id, word_id, served_at, next_review_date, interval, correct_count
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRowContext(ctx, query,
			item.LearnerID,
			item.WordID,
			item.ServedAt,
			item.NextReviewDate,
			item.Interval,
			item.CorrectCount,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	}

	// SQLite path: no RETURNING, use the last insert id
	query := `
		INSERT INTO scheduled_items (
			learner_id, word_id, served_at, next_review_date, interval, correct_count
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	result, err := DB.ExecContext(ctx, query,
		item.LearnerID,
		item.WordID,
		item.ServedAt,
		item.NextReviewDate,
		item.Interval,
		item.CorrectCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduled item: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	item.ID = id

	return nil
}

// FindDue returns all scheduled items whose next review date has
// passed, in serve order
func (r *ScheduledItemRepository) FindDue(ctx context.Context, now time.Time) ([]models.ScheduledItem, error) {
	query := `
		SELECT * FROM scheduled_items
		WHERE next_review_date <= $1
		ORDER BY served_at ASC, id ASC
	`
	var items []models.ScheduledItem
	err := DB.SelectContext(ctx, &items, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due scheduled items: %v", err)
	}
	return items, nil
}

// UpdateSchedule persists a new interval and next review date for an item
func (r *ScheduledItemRepository) UpdateSchedule(ctx context.Context, id int64, interval int, nextReview time.Time) error {
	query := `
		UPDATE scheduled_items SET
			interval = $1,
			next_review_date = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	result, err := DB.ExecContext(ctx, query, interval, nextReview, id)
	if err != nil {
		return fmt.Errorf("failed to update scheduled item %d: %v", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("scheduled item %d not found", id)
	}

	return nil
}

// RecordResponse stores the learner's latest answer on an item and
// bumps the correct count when the answer matched
func (r *ScheduledItemRepository) RecordResponse(ctx context.Context, id int64, response string, correct bool) error {
	inc := 0
	if correct {
		inc = 1
	}

	query := `
		UPDATE scheduled_items SET
			last_response = $1,
			correct_count = correct_count + $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`
	result, err := DB.ExecContext(ctx, query, response, inc, id)
	if err != nil {
		return fmt.Errorf("failed to record response for item %d: %v", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("scheduled item %d not found", id)
	}

	return nil
}

// FindMostRecentForLearner returns the learner's most recently served
// item, or nil when nothing has been served yet
func (r *ScheduledItemRepository) FindMostRecentForLearner(ctx context.Context, learnerID int64) (*models.ScheduledItem, error) {
	query := `
		SELECT * FROM scheduled_items
		WHERE learner_id = $1
		ORDER BY served_at DESC, id DESC
		LIMIT 1
	`
	var item models.ScheduledItem
	err := DB.GetContext(ctx, &item, query, learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get most recent item: %v", err)
	}
	return &item, nil
}

// CountDueForLearner returns how many of the learner's items are due
func (r *ScheduledItemRepository) CountDueForLearner(ctx context.Context, learnerID int64, now time.Time) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM scheduled_items WHERE learner_id = $1 AND next_review_date <= $2",
		learnerID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due items: %v", err)
	}
	return count, nil
}
