package models

import "time"

// Bill: Tamamlanmış bir satışın kaydı. Oluşturulduktan sonra değişmez.
type Bill struct {
	ID          uint      `gorm:"primaryKey"`
	BillNumber  string    `gorm:"size:100;uniqueIndex;not null"`
	Total       float64   `gorm:"not null"`
	Discount    float64   `gorm:"not null;default:0"`
	PaymentMode string    `gorm:"size:50;not null"`
	BillDate    time.Time `gorm:"index;not null"`
	CreatedBy   uint      `gorm:"index;not null"`
	CreatedAt   time.Time

	Items []BillItem
}

// BillItem: Fatura kalemi. Ürün adı ve fiyat satış anındaki halleriyle
// denormalize tutulur; ürün sonradan değişse de fatura aynı kalır.
type BillItem struct {
	ID          uint    `gorm:"primaryKey"`
	BillID      uint    `gorm:"index;not null"`
	ProductName string  `gorm:"size:255;not null"`
	Quantity    int     `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	GST         float64 `gorm:"not null"` // KDV oranı (%), satış anındaki değer
	ItemTotal   float64 `gorm:"not null"`
}
