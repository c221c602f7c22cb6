package stock

import (
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MovementResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	ChangeQty   int    `json:"change_qty"`
	Type        string `json:"movement_type"`
	ReferenceID *uint  `json:"reference_id"`
	Username    string `json:"username"`
	CreatedAt   string `json:"created_at"`
}

// GET /api/products/:id/movements
// Ürünün stok hareket geçmişi, en yeniden eskiye.
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var product models.Product
		if err := database.DB.First(&product, productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var movements []models.StockMovement
		if err := database.DB.
			Where("product_id = ?", productID).
			Order("created_at DESC").
			Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		// Kullanıcı adlarını tek sorguda topla
		userIDs := make([]uint, 0, len(movements))
		for _, m := range movements {
			userIDs = append(userIDs, m.CreatedBy)
		}
		usernames := map[uint]string{}
		if len(userIDs) > 0 {
			var users []models.User
			if err := database.DB.Where("id IN ?", userIDs).Find(&users).Error; err == nil {
				for _, u := range users {
					usernames[u.ID] = u.Username
				}
			}
		}

		resp := make([]MovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, MovementResponse{
				ID:          m.ID,
				ProductID:   m.ProductID,
				ChangeQty:   m.ChangeQty,
				Type:        string(m.Type),
				ReferenceID: m.ReferenceID,
				Username:    usernames[m.CreatedBy],
				CreatedAt:   m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(fiber.Map{
			"product": fiber.Map{
				"id":    product.ID,
				"name":  product.Name,
				"stock": product.Stock,
			},
			"movements": resp,
		})
	}
}
