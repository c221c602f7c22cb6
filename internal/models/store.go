package models

import "time"

type Store struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Location  string `gorm:"size:255"`
	Phone     string `gorm:"size:50"` // Opsiyonel telefon
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
