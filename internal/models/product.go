package models

import "time"

// Product: Market ürünü. Stok mutlak yazma ile değil, yalnızca stok
// hareketleri üzerinden göreli (+/-) güncellenir; commit edilmiş hiçbir
// işlemden sonra negatif olamaz.
type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null;unique"`
	ProductCode string  `gorm:"size:100;uniqueIndex"` // Barkod/stok kodu
	Price       float64 `gorm:"not null"`
	GST         float64 `gorm:"not null"` // KDV oranı (%)
	Stock       int     `gorm:"not null;default:0"`
	CostPrice   float64 `gorm:"not null;default:0"` // Son alış fiyatı
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
