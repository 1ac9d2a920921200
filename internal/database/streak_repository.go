package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/recallbot/pkg/models"
)

// StreakRepository handles database operations for learner streaks
type StreakRepository struct{}

// NewStreakRepository creates a new repository instance
func NewStreakRepository() *StreakRepository {
	return &StreakRepository{}
}

// GetByLearner returns the learner's streak record, or nil when the
// learner has never engaged
func (r *StreakRepository) GetByLearner(ctx context.Context, learnerID int64) (*models.LearnerStreak, error) {
	var streak models.LearnerStreak
	err := DB.GetContext(ctx, &streak, "SELECT * FROM learner_streaks WHERE learner_id = $1", learnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %v", err)
	}
	return &streak, nil
}

// Upsert creates or replaces the learner's streak record
func (r *StreakRepository) Upsert(ctx context.Context, streak *models.LearnerStreak) error {
	query := `
		INSERT INTO learner_streaks (learner_id, streak, last_completed, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (learner_id) DO UPDATE SET
			streak = EXCLUDED.streak,
			last_completed = EXCLUDED.last_completed,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := DB.ExecContext(ctx, query, streak.LearnerID, streak.Streak, streak.LastCompleted)
	if err != nil {
		return fmt.Errorf("failed to upsert streak: %v", err)
	}
	return nil
}
