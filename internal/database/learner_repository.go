package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/recallbot/pkg/models"
)

// LearnerRepository handles database operations for learners
type LearnerRepository struct{}

// NewLearnerRepository creates a new repository instance
func NewLearnerRepository() *LearnerRepository {
	return &LearnerRepository{}
}

// Upsert registers a learner or refreshes their profile fields. The
// preferred daily word count is kept as-is for existing learners.
func (r *LearnerRepository) Upsert(ctx context.Context, learner *models.Learner) error {
	query := `
		INSERT INTO learners (id, username, first_name, words_per_day)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name
	`
	_, err := DB.ExecContext(ctx, query,
		learner.ID,
		learner.Username,
		learner.FirstName,
		models.ClampWordsPerDay(learner.WordsPerDay),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert learner: %v", err)
	}
	return nil
}

// GetByID returns a learner, or nil when no such learner exists
func (r *LearnerRepository) GetByID(ctx context.Context, id int64) (*models.Learner, error) {
	var learner models.Learner
	err := DB.GetContext(ctx, &learner, "SELECT * FROM learners WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learner: %v", err)
	}
	return &learner, nil
}

// GetAll returns all registered learners
func (r *LearnerRepository) GetAll(ctx context.Context) ([]models.Learner, error) {
	var learners []models.Learner
	err := DB.SelectContext(ctx, &learners, "SELECT * FROM learners ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get learners: %v", err)
	}
	return learners, nil
}

// UpdateWordsPerDay sets the learner's preferred daily word count,
// clamped to the allowed range
func (r *LearnerRepository) UpdateWordsPerDay(ctx context.Context, id int64, count int) error {
	result, err := DB.ExecContext(ctx,
		"UPDATE learners SET words_per_day = $1 WHERE id = $2",
		models.ClampWordsPerDay(count), id)
	if err != nil {
		return fmt.Errorf("failed to update words per day: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("learner %d not found", id)
	}

	return nil
}
