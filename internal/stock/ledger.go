package stock

import (
	"fmt"

	"market-backend/internal/models"

	"gorm.io/gorm"
)

// InsufficientStockError: Negatif bir delta için mevcut stok yetmediğinde
// döner. Çağıran, transaction'ın tamamını geri almalı; kısmi kayıt kalamaz.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Yetersiz stok: %s", e.ProductName)
}

// Movement: Defterden geçecek tek bir stok değişimi.
type Movement struct {
	ProductID   uint
	ProductName string // hata mesajı için, DB'den tekrar okunmaz
	Delta       int    // satış ve zayiatta negatif, alışta pozitif
	Type        models.MovementType
	ReferenceID *uint // ilgili fatura/alış kaydı
	ActorID     uint
}

// Apply: Stok sayacını göreli günceller ve defter kaydını ekler; ikisi de
// çağıranın transaction'ı üzerinde çalışır. Negatif delta tek bir koşullu
// UPDATE ile uygulanır (stock >= |delta| şartı sorgunun içinde), ayrı bir
// oku-sonra-yaz adımı olmadığı için eşzamanlı satışlar veritabanının satır
// kilidi üzerinden sıralanır.
func Apply(tx *gorm.DB, m Movement) error {
	if m.Delta == 0 {
		return fmt.Errorf("stok deltası sıfır olamaz")
	}

	if m.Delta < 0 {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", m.ProductID, -m.Delta).
			UpdateColumn("stock", gorm.Expr("stock + ?", m.Delta))
		if res.Error != nil {
			return fmt.Errorf("stok güncellenemedi: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Ürün yok ya da stok yetersiz; iki durumda da satır değişmedi
			return &InsufficientStockError{ProductName: m.ProductName}
		}
	} else {
		res := tx.Model(&models.Product{}).
			Where("id = ?", m.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", m.Delta))
		if res.Error != nil {
			return fmt.Errorf("stok güncellenemedi: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("ürün bulunamadı (ID: %d)", m.ProductID)
		}
	}

	movement := models.StockMovement{
		ProductID:   m.ProductID,
		ChangeQty:   m.Delta,
		Type:        m.Type,
		ReferenceID: m.ReferenceID,
		CreatedBy:   m.ActorID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("stok hareketi kaydedilemedi: %w", err)
	}

	return nil
}
