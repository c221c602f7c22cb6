package stock

import (
	"fmt"

	"market-backend/internal/activity"
	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAdjustmentRequest struct {
	ProductID      uint   `json:"product_id"`
	AdjustmentType string `json:"adjustment_type"` // DAMAGE veya EXPIRED
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason"`
}

// POST /api/stock-adjustments
// Zayiat düşümü: stok azaltma + defter kaydı tek transaction'da.
func CreateAdjustmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateAdjustmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}

		mvType := models.MovementType(body.AdjustmentType)
		if mvType != models.MovementDamage && mvType != models.MovementExpired {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz zayiat tipi (DAMAGE veya EXPIRED olmalı)")
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem başlatılamadı")
		}

		if err := Apply(tx, Movement{
			ProductID:   body.ProductID,
			ProductName: product.Name,
			Delta:       -body.Quantity,
			Type:        mvType,
			ActorID:     actor.UserID,
		}); err != nil {
			tx.Rollback()
			if stockErr, ok := err.(*InsufficientStockError); ok {
				return fiber.NewError(fiber.StatusConflict, stockErr.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Zayiat işlenemedi: %v", err))
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		activity.Log(actor.UserID, fmt.Sprintf("Stock %s", mvType),
			fmt.Sprintf("%s için %d adet %s düşümü yapıldı", product.Name, body.Quantity, mvType))

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"product_id":      body.ProductID,
			"product_name":    product.Name,
			"adjustment_type": mvType,
			"quantity":        body.Quantity,
			"reason":          body.Reason,
		})
	}
}

type AddStockRequest struct {
	Quantity int `json:"quantity"`
}

// POST /api/products/:id/add-stock
// Düşük stok ekranından hızlı stok ekleme. Defterin sayaçla her an mutabık
// kalması için bu da PURCHASE hareketi olarak defterden geçer.
func AddStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var body AddStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}

		var product models.Product
		if err := database.DB.First(&product, productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem başlatılamadı")
		}

		if err := Apply(tx, Movement{
			ProductID:   product.ID,
			ProductName: product.Name,
			Delta:       body.Quantity,
			Type:        models.MovementPurchase,
			ActorID:     actor.UserID,
		}); err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Stok eklenemedi: %v", err))
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlem tamamlanamadı")
		}

		activity.Log(actor.UserID, "Add Stock",
			fmt.Sprintf("%s stoğuna %d adet eklendi", product.Name, body.Quantity))

		return c.JSON(fiber.Map{
			"product_id": product.ID,
			"added":      body.Quantity,
		})
	}
}
