package entity

import (
	"math"
	"time"
)

// Rating is one account's score (and optional review text) for one cafe.
// At most one rating exists per (account, cafe) pair; resubmission overwrites.
type Rating struct {
	ID        uint
	AccountID uint
	CafeID    uint
	Score     int    // 1 to 5.
	Review    string // Optional free-text review.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate is the per-cafe rating summary computed by the store.
type RatingAggregate struct {
	Sum   int
	Count int
}

// Average returns the arithmetic mean of the aggregated scores rounded to one
// decimal place. An empty aggregate averages to 0.
func (a RatingAggregate) Average() float64 {
	if a.Count == 0 {
		return 0
	}

	return math.Round(float64(a.Sum)/float64(a.Count)*10) / 10
}
