package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/recallbot/pkg/models"
)

// Policy holds the interval-growth settings for the review schedule
type Policy struct {
	// Interval assigned when a word is first served, in days
	InitialInterval int
	// Multiplier applied to the current interval after each review
	GrowthFactor float64
	// Lower bound for any computed interval, in days
	MinInterval int
}

// NewPolicy creates a policy with the default settings
func NewPolicy() *Policy {
	return &Policy{
		InitialInterval: 2,   // First review two days after a word is served
		GrowthFactor:    2.5, // 2 -> 5 -> 13 -> 33 -> ...
		MinInterval:     1,
	}
}

// NextInterval computes the interval to use after a review cycle. The
// result is the current interval multiplied by GrowthFactor, rounded to
// the nearest day and never below MinInterval, so a corrupted zero or
// negative stored interval still yields a valid schedule.
func (p *Policy) NextInterval(current int) int {
	next := int(math.Round(float64(current) * p.GrowthFactor))
	if next < p.MinInterval {
		next = p.MinInterval
	}
	return next
}

// SeedInterval returns the interval for a newly served word. A stored
// value of zero or less means the item predates interval tracking and
// gets the initial interval.
func (p *Policy) SeedInterval(current int) int {
	if current <= 0 {
		return p.InitialInterval
	}
	return current
}

// SelectDue returns the items whose next review date has passed,
// preserving the input order. Callers rely on serve order downstream,
// so no re-sorting happens here. Input items are not modified.
func SelectDue(now time.Time, items []models.ScheduledItem) []models.ScheduledItem {
	var due []models.ScheduledItem
	for _, item := range items {
		if !item.NextReviewDate.After(now) {
			due = append(due, item)
		}
	}
	return due
}
