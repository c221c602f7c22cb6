package inventory

import (
	"fmt"
	"strings"

	"market-backend/internal/activity"
	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	ProductCode string  `json:"product_code"`
	Price       float64 `json:"price"`
	GST         float64 `json:"gst"`
	Stock       int     `json:"stock"`
	CostPrice   float64 `json:"cost_price"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	ProductCode string  `json:"product_code"`
	Price       float64 `json:"price"`
	GST         float64 `json:"gst"`
	Stock       int     `json:"stock"` // başlangıç stoku
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	ProductCode *string  `json:"product_code"`
	Price       *float64 `json:"price"`
	GST         *float64 `json:"gst"`
	// Stok bilinçli olarak yok: stok yalnızca alış/zayiat/satış üzerinden,
	// defterle birlikte değişir.
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		ProductCode: p.ProductCode,
		Price:       p.Price,
		GST:         p.GST,
		Stock:       p.Stock,
		CostPrice:   p.CostPrice,
	}
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p))
		}
		return c.JSON(resp)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.ProductCode = strings.ToUpper(strings.TrimSpace(body.ProductCode))

		if body.Name == "" || body.ProductCode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı ve ürün kodu zorunlu")
		}
		if body.Price < 0 || body.GST < 0 || body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat, KDV ve stok negatif olamaz")
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu isimde bir ürün zaten var")
		}
		database.DB.Model(&models.Product{}).Where("product_code = ?", body.ProductCode).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu kodla bir ürün zaten var")
		}

		product := models.Product{
			Name:        body.Name,
			ProductCode: body.ProductCode,
			Price:       body.Price,
			GST:         body.GST,
			Stock:       body.Stock,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		activity.Log(actor.UserID, "Add Product",
			fmt.Sprintf("'%s' ürünü '%s' koduyla eklendi", product.Name, product.ProductCode))

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var product models.Product
		if err := database.DB.First(&product, productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			product.Name = name
		}
		if body.ProductCode != nil {
			code := strings.ToUpper(strings.TrimSpace(*body.ProductCode))
			if code == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün kodu boş olamaz")
			}
			product.ProductCode = code
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			product.Price = *body.Price
		}
		if body.GST != nil {
			if *body.GST < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "KDV negatif olamaz")
			}
			product.GST = *body.GST
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(toProductResponse(product))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		productID, err := c.ParamsInt("id")
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}

		var product models.Product
		if err := database.DB.First(&product, productID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		// Defter kaydı olan ürün silinemez; alım geçmişi ve satış analizleri
		// ürün satırına bağlıdır
		var movementCount int64
		database.DB.Model(&models.StockMovement{}).
			Where("product_id = ?", product.ID).
			Count(&movementCount)
		if movementCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Stok hareketi olan ürün silinemez")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		activity.Log(actor.UserID, "Delete Product", fmt.Sprintf("'%s' ürünü silindi", product.Name))

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type ProductByCodeRequest struct {
	ProductCode string `json:"product_code"`
}

// POST /api/products/by-code
// Kasa ekranı barkod/kod araması; sadece stokta olan ürünleri döndürür.
func GetProductByCodeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductByCodeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		code := strings.ToUpper(strings.TrimSpace(body.ProductCode))
		if code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün kodu zorunlu")
		}

		var product models.Product
		if err := database.DB.
			Where("product_code = ? AND stock > 0", code).
			First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı veya stokta yok")
		}

		return c.JSON(fiber.Map{
			"id":    product.ID,
			"name":  product.Name,
			"price": product.Price,
			"gst":   product.GST,
			"stock": product.Stock,
		})
	}
}

// GET /api/products/low-stock?threshold=10
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		threshold := c.QueryInt("threshold", 10)

		var products []models.Product
		if err := database.DB.
			Where("stock < ?", threshold).
			Order("stock asc").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Düşük stoklu ürünler listelenemedi")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p))
		}

		return c.JSON(fiber.Map{
			"threshold": threshold,
			"products":  resp,
		})
	}
}
