package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/recallbot/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// Create inserts a new word
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	if Type() == "postgres" {
		query := `
			INSERT INTO words (word, translation, example)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRowContext(ctx, query, word.Word, word.Translation, word.Example).
			Scan(&word.ID, &word.CreatedAt, &word.UpdatedAt)
	}

	result, err := DB.ExecContext(ctx,
		"INSERT INTO words (word, translation, example) VALUES ($1, $2, $3)",
		word.Word, word.Translation, word.Example)
	if err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	word.ID = id

	return nil
}

// Update modifies an existing word
func (r *WordRepository) Update(ctx context.Context, word *models.Word) error {
	result, err := DB.ExecContext(ctx, `
		UPDATE words SET
			translation = $1,
			example = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, word.Translation, word.Example, word.ID)
	if err != nil {
		return fmt.Errorf("failed to update word: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return fmt.Errorf("word %d not found", word.ID)
	}

	return nil
}

// GetByID returns a word, or nil when no such word exists
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := DB.GetContext(ctx, &word, "SELECT * FROM words WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %v", err)
	}
	return &word, nil
}

// GetByWord returns a word looked up by its text, or nil when absent
func (r *WordRepository) GetByWord(ctx context.Context, text string) (*models.Word, error) {
	var word models.Word
	err := DB.GetContext(ctx, &word, "SELECT * FROM words WHERE word = $1", text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %v", err)
	}
	return &word, nil
}

// GetUnservedForLearner returns up to limit words that have never been
// served to the given learner, oldest first
func (r *WordRepository) GetUnservedForLearner(ctx context.Context, learnerID int64, limit int) ([]models.Word, error) {
	query := `
		SELECT w.* FROM words w
		WHERE NOT EXISTS (
			SELECT 1 FROM scheduled_items si
			WHERE si.word_id = w.id AND si.learner_id = $1
		)
		ORDER BY w.id ASC
		LIMIT $2
	`
	var words []models.Word
	err := DB.SelectContext(ctx, &words, query, learnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unserved words: %v", err)
	}
	return words, nil
}
