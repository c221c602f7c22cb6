package main

import (
	"log"
	"strings"

	"market-backend/internal/activity"
	"market-backend/internal/admin"
	"market-backend/internal/auth"
	"market-backend/internal/billing"
	"market-backend/internal/config"
	"market-backend/internal/database"
	"market-backend/internal/inventory"
	"market-backend/internal/models"
	"market-backend/internal/reports"
	"market-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// .env varsa yükle; yoksa ortam değişkenleri kullanılır
	_ = godotenv.Load()

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler())

	// Admin routes
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Ürün yönetimi
	adminRoutes.Put("/products/:id", inventory.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", inventory.DeleteProductHandler())

	// Alış, zayiat, stok geçmişi
	adminRoutes.Post("/purchases", stock.CreatePurchaseHandler())
	adminRoutes.Get("/purchases", stock.ListPurchasesHandler())
	adminRoutes.Post("/stock-adjustments", stock.CreateAdjustmentHandler())
	adminRoutes.Get("/products/:id/movements", stock.ListMovementsHandler())
	adminRoutes.Post("/products/:id/add-stock", stock.AddStockHandler())

	// Mağaza ve kullanıcı yönetimi
	adminRoutes.Post("/stores", admin.CreateStoreHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())
	adminRoutes.Post("/users", admin.CreateUserHandler())

	// Aktivite kayıtları ve analiz
	adminRoutes.Get("/activity-logs", activity.ListLogsHandler())
	adminRoutes.Get("/reports/product-analytics", reports.ProductAnalyticsHandler())

	// Dashboard
	adminRoutes.Get("/dashboard/admin", reports.AdminDashboardHandler())
	protected.Get("/dashboard/user", reports.UserDashboardHandler())

	// Envanter
	protected.Get("/products", inventory.ListProductsHandler())
	protected.Post("/products", inventory.CreateProductHandler())
	protected.Post("/products/by-code", inventory.GetProductByCodeHandler())
	protected.Get("/products/low-stock", inventory.LowStockHandler())
	protected.Post("/products/bulk-import", inventory.BulkImportHandler())
	protected.Get("/products/import-template", inventory.ImportTemplateHandler())

	// Kasa / faturalama
	protected.Post("/checkout", billing.ProcessCheckoutHandler())
	protected.Get("/bills", billing.ListBillsHandler())
	protected.Get("/bills/:id", billing.GetBillHandler())
	protected.Get("/bills/:id/receipt", billing.BillReceiptHandler())

	// Raporlar
	protected.Get("/reports", reports.SalesReportHandler())

	// Mağazalar
	protected.Get("/stores", admin.ListStoresHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
