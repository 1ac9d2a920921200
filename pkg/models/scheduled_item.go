package models

import "time"

// ScheduledItem is one word assigned to one learner together with its
// review schedule. Items are created when a word is first served and
// kept forever as the learner's progress history.
//
// Invariants maintained by the callers: Interval >= 1,
// NextReviewDate >= ServedAt, CorrectCount never decreases.
type ScheduledItem struct {
	ID             int64     `json:"id" db:"id"`
	LearnerID      int64     `json:"learner_id" db:"learner_id"`
	WordID         int64     `json:"word_id" db:"word_id"`
	ServedAt       time.Time `json:"served_at" db:"served_at"`
	NextReviewDate time.Time `json:"next_review_date" db:"next_review_date"`
	Interval       int       `json:"interval" db:"interval"` // days between reviews
	LastResponse   *string   `json:"last_response" db:"last_response"`
	CorrectCount   int       `json:"correct_count" db:"correct_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
