package review

import (
	"time"

	"github.com/example/recallbot/pkg/models"
)

// streakResetGap is the longest pause between engagements that still
// extends a streak
const streakResetGap = 48 * time.Hour

// NextStreak returns the streak record after an engagement at the given
// time. A zero-value record (no previous engagement) starts a streak of
// one, a gap of more than two days since the last completion resets to
// one, anything else increments.
func NextStreak(current models.LearnerStreak, now time.Time) models.LearnerStreak {
	next := current
	next.LastCompleted = now

	switch {
	case current.LastCompleted.IsZero():
		next.Streak = 1
	case now.Sub(current.LastCompleted) > streakResetGap:
		next.Streak = 1
	default:
		next.Streak = current.Streak + 1
	}

	return next
}
