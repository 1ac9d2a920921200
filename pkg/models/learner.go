package models

import "time"

// Bounds for the preferred number of new words served per day
const (
	MinWordsPerDay = 1
	MaxWordsPerDay = 3
)

// Learner represents a registered Telegram user receiving word reminders
type Learner struct {
	ID          int64     `json:"id" db:"id"` // Telegram user ID
	Username    string    `json:"username" db:"username"`
	FirstName   string    `json:"first_name" db:"first_name"`
	WordsPerDay int       `json:"words_per_day" db:"words_per_day"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ClampWordsPerDay forces a daily word count into the allowed range
func ClampWordsPerDay(n int) int {
	if n < MinWordsPerDay {
		return MinWordsPerDay
	}
	if n > MaxWordsPerDay {
		return MaxWordsPerDay
	}
	return n
}
