package model

import "time"

// FavoriteModel mirrors the 'favorites' table. The composite unique index
// backs the do-nothing upsert that makes bookmark creation idempotent.
type FavoriteModel struct {
	ID        uint `gorm:"primaryKey"`
	AccountID uint `gorm:"not null;uniqueIndex:idx_favorites_account_cafe"`
	CafeID    uint `gorm:"not null;uniqueIndex:idx_favorites_account_cafe;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (FavoriteModel) TableName() string {
	return "favorites"
}
