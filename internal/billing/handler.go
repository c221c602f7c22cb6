package billing

import (
	"errors"
	"fmt"

	"market-backend/internal/activity"
	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"
	"market-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type CheckoutRequest struct {
	Cart        []CartItem `json:"cart"`
	Discount    float64    `json:"discount"`
	PaymentMode string     `json:"payment_mode"`
}

// POST /api/checkout
func ProcessCheckoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		result, err := Checkout(actor, CheckoutInput{
			Cart:        body.Cart,
			Discount:    body.Discount,
			PaymentMode: body.PaymentMode,
		})
		if err != nil {
			var invalidErr *InvalidInputError
			var stockErr *stock.InsufficientStockError
			switch {
			case errors.Is(err, ErrEmptyCart):
				return fiber.NewError(fiber.StatusBadRequest, "Sepet boş")
			case errors.As(err, &invalidErr):
				return fiber.NewError(fiber.StatusBadRequest, invalidErr.Reason)
			case errors.As(err, &stockErr):
				return fiber.NewError(fiber.StatusConflict, stockErr.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Satış tamamlanamadı: %v", err))
			}
		}

		// Aktivite kaydı commit SONRASI ve best-effort; satışı etkilemez
		activity.Log(actor.UserID, "Create Bill",
			fmt.Sprintf("Fatura %s oluşturuldu, toplam %.2f", result.BillNumber, result.Total))

		return c.JSON(fiber.Map{
			"success":     true,
			"bill_number": result.BillNumber,
			"total":       result.Total,
		})
	}
}

type BillItemResponse struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	GST         float64 `json:"gst"`
	ItemTotal   float64 `json:"item_total"`
}

type BillResponse struct {
	ID          uint               `json:"id"`
	BillNumber  string             `json:"bill_number"`
	Total       float64            `json:"total"`
	Discount    float64            `json:"discount"`
	PaymentMode string             `json:"payment_mode"`
	BillDate    string             `json:"bill_date"`
	CreatedBy   uint               `json:"created_by"`
	Items       []BillItemResponse `json:"items,omitempty"`
}

// GET /api/bills/:id
func GetBillHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		billID, err := c.ParamsInt("id")
		if err != nil || billID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fatura ID")
		}

		var bill models.Bill
		if err := database.DB.Preload("Items").First(&bill, billID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
		}

		resp := BillResponse{
			ID:          bill.ID,
			BillNumber:  bill.BillNumber,
			Total:       bill.Total,
			Discount:    bill.Discount,
			PaymentMode: bill.PaymentMode,
			BillDate:    bill.BillDate.Format("2006-01-02 15:04:05"),
			CreatedBy:   bill.CreatedBy,
		}
		for _, it := range bill.Items {
			resp.Items = append(resp.Items, BillItemResponse{
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				Price:       it.Price,
				GST:         it.GST,
				ItemTotal:   it.ItemTotal,
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/bills
func ListBillsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var bills []models.Bill
		if err := database.DB.
			Order("bill_date DESC").
			Limit(200).
			Find(&bills).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		resp := make([]BillResponse, 0, len(bills))
		for _, b := range bills {
			resp = append(resp, BillResponse{
				ID:          b.ID,
				BillNumber:  b.BillNumber,
				Total:       b.Total,
				Discount:    b.Discount,
				PaymentMode: b.PaymentMode,
				BillDate:    b.BillDate.Format("2006-01-02 15:04:05"),
				CreatedBy:   b.CreatedBy,
			})
		}

		return c.JSON(resp)
	}
}
