package models

import "time"

// LearnerStreak tracks a learner's consecutive-day engagement. The
// record is created lazily on the first recorded engagement.
type LearnerStreak struct {
	LearnerID     int64     `json:"learner_id" db:"learner_id"`
	Streak        int       `json:"streak" db:"streak"`
	LastCompleted time.Time `json:"last_completed" db:"last_completed"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
