package models

import "time"

// Word represents a vocabulary unit served to learners
type Word struct {
	ID          int64     `json:"id" db:"id"`
	Word        string    `json:"word" db:"word"`
	Translation string    `json:"translation" db:"translation"`
	Example     string    `json:"example" db:"example"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
