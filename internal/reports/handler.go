package reports

import (
	"time"

	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/admin
func AdminDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var totalProducts, totalBills, totalStores int64
		database.DB.Model(&models.Product{}).Count(&totalProducts)
		database.DB.Model(&models.Bill{}).Count(&totalBills)
		database.DB.Model(&models.Store{}).Where("active = ?", true).Count(&totalStores)

		var totalSales float64
		database.DB.Model(&models.Bill{}).
			Select("COALESCE(SUM(total), 0)").
			Scan(&totalSales)

		return c.JSON(fiber.Map{
			"total_products": totalProducts,
			"total_bills":    totalBills,
			"total_sales":    totalSales,
			"total_stores":   totalStores,
		})
	}
}

// GET /api/dashboard/user
// Giriş yapan kullanıcının kendi satış özetleri.
func UserDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var totalProducts, userBills, lowStockItems int64
		database.DB.Model(&models.Product{}).Count(&totalProducts)
		database.DB.Model(&models.Bill{}).Where("created_by = ?", actor.UserID).Count(&userBills)
		database.DB.Model(&models.Product{}).Where("stock < ?", 10).Count(&lowStockItems)

		var userSales float64
		database.DB.Model(&models.Bill{}).
			Where("created_by = ?", actor.UserID).
			Select("COALESCE(SUM(total), 0)").
			Scan(&userSales)

		return c.JSON(fiber.Map{
			"total_products":  totalProducts,
			"user_bills":      userBills,
			"user_sales":      userSales,
			"low_stock_items": lowStockItems,
		})
	}
}

type billRow struct {
	ID          uint    `json:"id"`
	BillNumber  string  `json:"bill_number"`
	BillDate    string  `json:"bill_date"`
	Total       float64 `json:"total"`
	PaymentMode string  `json:"payment_mode"`
}

// GET /api/reports?type=daily|weekly|monthly|all
// Satış raporu: fatura listesi + dönem istatistikleri + alım harcaması.
func SalesReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reportType := c.Query("type", "all")
		switch reportType {
		case "daily", "weekly", "monthly", "all":
		default:
			reportType = "all"
		}

		since := reportSince(reportType, time.Now())

		billQuery := database.DB.Model(&models.Bill{})
		purchaseQuery := database.DB.Model(&models.Purchase{})
		if !since.IsZero() {
			billQuery = billQuery.Where("bill_date >= ?", since)
			purchaseQuery = purchaseQuery.Where("created_at >= ?", since)
		}

		var bills []models.Bill
		if err := billQuery.Order("bill_date DESC").Find(&bills).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		var stats struct {
			BillCount     int64   `json:"bill_count"`
			TotalSales    float64 `json:"total_sales"`
			TotalDiscount float64 `json:"total_discount"`
		}
		stats.BillCount = int64(len(bills))
		for _, b := range bills {
			stats.TotalSales += b.Total
			stats.TotalDiscount += b.Discount
		}

		var totalPurchases float64
		purchaseQuery.
			Select("COALESCE(SUM(quantity * cost_price), 0)").
			Scan(&totalPurchases)

		rows := make([]billRow, 0, len(bills))
		for _, b := range bills {
			rows = append(rows, billRow{
				ID:          b.ID,
				BillNumber:  b.BillNumber,
				BillDate:    b.BillDate.Format("2006-01-02 15:04:05"),
				Total:       b.Total,
				PaymentMode: b.PaymentMode,
			})
		}

		return c.JSON(fiber.Map{
			"report_type":     reportType,
			"bills":           rows,
			"stats":           stats,
			"total_purchases": totalPurchases,
		})
	}
}

// reportSince: Rapor tipine göre dönem başlangıcı. "all" için sıfır zaman
// döner (filtre yok).
func reportSince(reportType string, now time.Time) time.Time {
	switch reportType {
	case "daily":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "weekly":
		return now.AddDate(0, 0, -7)
	case "monthly":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

type productSalesRow struct {
	ID           uint   `json:"id" gorm:"column:id"`
	Name         string `json:"name" gorm:"column:name"`
	TotalSold    int    `json:"total_sold" gorm:"column:total_sold"`
	BillsCount   int    `json:"bills_count" gorm:"column:bills_count"`
	CurrentStock int    `json:"current_stock" gorm:"column:current_stock"`
}

// GET /api/reports/product-analytics
// En çok ve en az satan ürünler, SALE defter kayıtlarından.
func ProductAnalyticsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var topSelling []productSalesRow
		if err := database.DB.Raw(`
			SELECT p.id, p.name, COALESCE(SUM(-sm.change_qty), 0) AS total_sold,
			       COUNT(DISTINCT sm.reference_id) AS bills_count,
			       p.stock AS current_stock
			FROM stock_movements sm
			JOIN products p ON sm.product_id = p.id
			WHERE sm.movement_type = 'SALE'
			GROUP BY p.id, p.name, p.stock
			ORDER BY total_sold DESC
			LIMIT 10
		`).Scan(&topSelling).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış analizi hesaplanamadı")
		}

		var lowSelling []productSalesRow
		if err := database.DB.Raw(`
			SELECT p.id, p.name, COALESCE(SUM(-sm.change_qty), 0) AS total_sold,
			       COUNT(DISTINCT sm.reference_id) AS bills_count,
			       p.stock AS current_stock
			FROM products p
			LEFT JOIN stock_movements sm ON p.id = sm.product_id AND sm.movement_type = 'SALE'
			GROUP BY p.id, p.name, p.stock
			ORDER BY total_sold ASC, p.stock DESC
			LIMIT 10
		`).Scan(&lowSelling).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış analizi hesaplanamadı")
		}

		return c.JSON(fiber.Map{
			"top_selling": topSelling,
			"low_selling": lowSelling,
		})
	}
}
