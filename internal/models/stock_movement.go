package models

import "time"

type MovementType string

const (
	MovementPurchase MovementType = "PURCHASE"
	MovementSale     MovementType = "SALE"
	MovementDamage   MovementType = "DAMAGE"
	MovementExpired  MovementType = "EXPIRED"
)

// StockMovement: Salt-ekleme stok defteri. Kayıtlar asla güncellenmez veya
// silinmez. Bir ürünün başlangıç stoku + tüm delta'ların toplamı her an
// products.stock ile eşit olmalı.
type StockMovement struct {
	ID          uint `gorm:"primaryKey"`
	ProductID   uint `gorm:"index;not null"`
	Product     Product
	ChangeQty   int          `gorm:"not null"` // satışta ve zayiatta negatif
	Type        MovementType `gorm:"column:movement_type;size:20;index;not null"`
	ReferenceID *uint        // İlgili fatura veya alış kaydı (zayiatta boş)
	CreatedBy   uint         `gorm:"not null"`
	CreatedAt   time.Time    `gorm:"index"`
}
