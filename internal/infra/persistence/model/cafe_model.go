package model

import "time"

// CafeModel mirrors the 'cafes' table.
type CafeModel struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text"`
	Address     string  `gorm:"type:varchar(255)"`
	Area        string  `gorm:"type:varchar(100);index"`
	Latitude    float64 `gorm:"type:double precision"`
	Longitude   float64 `gorm:"type:double precision"`
	PriceTier   int     `gorm:"not null;default:1"`
	HasWifi     bool    `gorm:"not null;default:false"`
	HasPower    bool    `gorm:"not null;default:false"`
	ServesFood  bool    `gorm:"not null;default:false"`
	SellsBeans  bool    `gorm:"not null;default:false"`
	Status      string  `gorm:"type:varchar(20);index;not null;default:draft"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	RoastLevels []CafeRoastLevelModel `gorm:"foreignKey:CafeID"`
	BrewMethods []CafeBrewMethodModel `gorm:"foreignKey:CafeID"`
}

// TableName explicitly sets the table name for GORM.
func (CafeModel) TableName() string {
	return "cafes"
}

// CafeRoastLevelModel mirrors the 'cafe_roast_levels' join table.
// The composite primary key keeps each tag at most once per cafe.
type CafeRoastLevelModel struct {
	CafeID     uint   `gorm:"primaryKey;autoIncrement:false"`
	RoastLevel string `gorm:"primaryKey;type:varchar(20)"`
}

// TableName explicitly sets the table name for GORM.
func (CafeRoastLevelModel) TableName() string {
	return "cafe_roast_levels"
}

// CafeBrewMethodModel mirrors the 'cafe_brew_methods' join table.
type CafeBrewMethodModel struct {
	CafeID     uint   `gorm:"primaryKey;autoIncrement:false"`
	BrewMethod string `gorm:"primaryKey;type:varchar(20)"`
}

// TableName explicitly sets the table name for GORM.
func (CafeBrewMethodModel) TableName() string {
	return "cafe_brew_methods"
}
