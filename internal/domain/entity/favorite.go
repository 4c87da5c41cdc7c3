package entity

import "time"

// Favorite marks a cafe bookmarked by an account.
// At most one row exists per (account, cafe) pair; creation is idempotent.
type Favorite struct {
	ID        uint
	AccountID uint
	CafeID    uint
	CreatedAt time.Time
}
