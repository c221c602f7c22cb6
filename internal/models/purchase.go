package models

import "time"

type Purchase struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  int     `gorm:"not null"`
	CostPrice float64 `gorm:"not null"`
	Supplier  string  `gorm:"size:255"`
	CreatedBy uint    `gorm:"index;not null"`
	CreatedAt time.Time
}
