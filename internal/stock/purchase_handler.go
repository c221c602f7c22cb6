package stock

import (
	"fmt"
	"time"

	"market-backend/internal/activity"
	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Aynı alım kaydının art arda iki kez gönderilmesine karşı pencere.
// Güçlü bir idempotency anahtarı değil, kaza önleyici bir sezgisel.
const duplicatePurchaseWindow = 30 * time.Second

type CreatePurchaseRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	Supplier  string  `json:"supplier"`
}

type PurchaseResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	CostPrice   float64 `json:"cost_price"`
	Supplier    string  `json:"supplier"`
	CreatedAt   string  `json:"created_at"`
}

// isDuplicatePurchase: Aynı (ürün, miktar, maliyet, tedarikçi, kullanıcı)
// beşlisi pencere içinde zaten kaydedilmiş mi?
func isDuplicatePurchase(db *gorm.DB, body CreatePurchaseRequest, actorID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Purchase{}).
		Where("product_id = ? AND quantity = ? AND cost_price = ? AND supplier = ? AND created_by = ? AND created_at > ?",
			body.ProductID, body.Quantity, body.CostPrice, body.Supplier, actorID,
			time.Now().Add(-duplicatePurchaseWindow)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// POST /api/purchases
// Alış kaydı + stok artışı + defter kaydı tek transaction'da. Ürünün maliyet
// fiyatı son alışın maliyetiyle güncellenir (son yazan kazanır).
func CreatePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}
		if body.CostPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Maliyet fiyatı negatif olamaz")
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		dup, err := isDuplicatePurchase(database.DB, body, actor.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alım kaydı kontrol edilemedi")
		}
		if dup {
			return fiber.NewError(fiber.StatusConflict, "Aynı alım kaydı kısa süre önce girildi. Tekrar göndermeden önce bekleyin.")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem başlatılamadı")
		}

		purchase := models.Purchase{
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
			CostPrice: body.CostPrice,
			Supplier:  body.Supplier,
			CreatedBy: actor.UserID,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Alım kaydı oluşturulamadı")
		}

		refID := purchase.ID
		if err := Apply(tx, Movement{
			ProductID:   body.ProductID,
			ProductName: product.Name,
			Delta:       body.Quantity,
			Type:        models.MovementPurchase,
			ReferenceID: &refID,
			ActorID:     actor.UserID,
		}); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Stok güncellenemedi: %v", err))
		}

		if err := tx.Model(&models.Product{}).
			Where("id = ?", body.ProductID).
			UpdateColumn("cost_price", body.CostPrice).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Maliyet fiyatı güncellenemedi")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		activity.Log(actor.UserID, "Add Purchase",
			fmt.Sprintf("Alım girildi: %s, %d adet, maliyet %.2f", product.Name, body.Quantity, body.CostPrice))

		return c.Status(fiber.StatusCreated).JSON(PurchaseResponse{
			ID:          purchase.ID,
			ProductID:   purchase.ProductID,
			ProductName: product.Name,
			Quantity:    purchase.Quantity,
			CostPrice:   purchase.CostPrice,
			Supplier:    purchase.Supplier,
			CreatedAt:   purchase.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/purchases
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var purchases []models.Purchase
		if err := database.DB.
			Preload("Product").
			Order("created_at DESC").
			Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alım kayıtları listelenemedi")
		}

		resp := make([]PurchaseResponse, 0, len(purchases))
		for _, p := range purchases {
			resp = append(resp, PurchaseResponse{
				ID:          p.ID,
				ProductID:   p.ProductID,
				ProductName: p.Product.Name,
				Quantity:    p.Quantity,
				CostPrice:   p.CostPrice,
				Supplier:    p.Supplier,
				CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
