// Package model contains the GORM persistence models mirroring the database tables.
package model

import "time"

// AccountModel mirrors the 'accounts' table. Handle and email each carry a
// unique index; the provider pair carries a composite one. Provider columns
// are nullable so local-only accounts do not collide on the pair index.
type AccountModel struct {
	ID           uint    `gorm:"primaryKey"`
	Handle       string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string  `gorm:"type:varchar(255)"`
	DisplayName  string  `gorm:"type:varchar(100)"`
	Role         string  `gorm:"type:varchar(20);not null;default:user"`
	ProviderName *string `gorm:"type:varchar(50);uniqueIndex:idx_accounts_provider_identity"`
	ProviderUID  *string `gorm:"type:varchar(128);uniqueIndex:idx_accounts_provider_identity"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	RefreshTokens []RefreshTokenModel       `gorm:"foreignKey:AccountID"`
	ResetTokens   []PasswordResetTokenModel `gorm:"foreignKey:AccountID"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
