package inventory

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Product{},
		&models.Bill{},
		&models.BillItem{},
		&models.Purchase{},
		&models.StockMovement{},
		&models.ActivityLog{},
	))

	database.DB = db
	return db
}

// Handler testlerinde JWT middleware yerine locals'ı dolduran kısa devre.
func testApp() *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUsernameKey, "admin")
		return c.Next()
	})
	return app
}

func TestDeleteProductBlockedByLedgerHistory(t *testing.T) {
	db := setupTestDB(t)

	p := models.Product{Name: "Rice 1kg", ProductCode: "RICE100", Price: 60, GST: 5, Stock: 10}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&models.StockMovement{
		ProductID: p.ID,
		ChangeQty: 10,
		Type:      models.MovementPurchase,
		CreatedBy: 1,
	}).Error)

	app := testApp()
	app.Delete("/products/:id", DeleteProductHandler())

	resp, err := app.Test(httptest.NewRequest("DELETE", "/products/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Ürün yerinde duruyor, alım geçmişi yetim kalmadı
	var count int64
	db.Model(&models.Product{}).Where("id = ?", p.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteProductWithoutHistory(t *testing.T) {
	db := setupTestDB(t)

	p := models.Product{Name: "Rice 1kg", ProductCode: "RICE100", Price: 60, GST: 5, Stock: 0}
	require.NoError(t, db.Create(&p).Error)

	app := testApp()
	app.Delete("/products/:id", DeleteProductHandler())

	resp, err := app.Test(httptest.NewRequest("DELETE", "/products/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Zero(t, count)
}

func TestValidateImportFilename(t *testing.T) {
	assert.NoError(t, validateImportFilename("urunler.xlsx"))
	assert.NoError(t, validateImportFilename("URUNLER.XLSX"))

	err := validateImportFilename("urunler.xls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".xls formatı desteklenmiyor")

	require.Error(t, validateImportFilename("urunler.csv"))
	require.Error(t, validateImportFilename("urunler"))
}
