package model

import "time"

// RatingModel mirrors the 'ratings' table. The composite unique index on
// (account_id, cafe_id) is what turns a resubmission into an upsert instead
// of a duplicate row.
type RatingModel struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID uint   `gorm:"not null;uniqueIndex:idx_ratings_account_cafe"`
	CafeID    uint   `gorm:"not null;uniqueIndex:idx_ratings_account_cafe;index"`
	Score     int    `gorm:"not null"`
	Review    string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RatingModel) TableName() string {
	return "ratings"
}
