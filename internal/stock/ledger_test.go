package stock

import (
	"path/filepath"
	"testing"

	"market-backend/internal/database"
	"market-backend/internal/models"

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

func createProduct(t *testing.T, db *gorm.DB, name string, stockQty int) models.Product {
	t.Helper()
	p := models.Product{Name: name, ProductCode: name, Price: 10, GST: 5, Stock: stockQty}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func applyCommitted(t *testing.T, db *gorm.DB, m Movement) error {
	t.Helper()
	tx := db.Begin()
	require.NoError(t, tx.Error)
	if err := Apply(tx, m); err != nil {
		tx.Rollback()
		return err
	}
	require.NoError(t, tx.Commit().Error)
	return nil
}

func TestApplyPositiveDelta(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Sugar 1kg", 10)

	err := applyCommitted(t, db, Movement{
		ProductID: p.ID, ProductName: p.Name,
		Delta: 50, Type: models.MovementPurchase, ActorID: 1,
	})
	require.NoError(t, err)

	var after models.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 60, after.Stock)

	var mv models.StockMovement
	require.NoError(t, db.Where("product_id = ?", p.ID).First(&mv).Error)
	assert.Equal(t, 50, mv.ChangeQty)
	assert.Equal(t, models.MovementPurchase, mv.Type)
}

func TestApplyNegativeDelta(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Sugar 1kg", 10)

	err := applyCommitted(t, db, Movement{
		ProductID: p.ID, ProductName: p.Name,
		Delta: -4, Type: models.MovementDamage, ActorID: 1,
	})
	require.NoError(t, err)

	var after models.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 6, after.Stock)
}

func TestApplyInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Sugar 1kg", 10)

	err := applyCommitted(t, db, Movement{
		ProductID: p.ID, ProductName: p.Name,
		Delta: -11, Type: models.MovementSale, ActorID: 1,
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Sugar 1kg", stockErr.ProductName)

	// Ne stok değişti ne hareket yazıldı
	var after models.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 10, after.Stock)

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	assert.Zero(t, count)
}

func TestApplyExactStock(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Sugar 1kg", 10)

	// Stokun tamamı düşülebilir, sıfırın altına inilemez
	err := applyCommitted(t, db, Movement{
		ProductID: p.ID, ProductName: p.Name,
		Delta: -10, Type: models.MovementSale, ActorID: 1,
	})
	require.NoError(t, err)

	var after models.Product
	require.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 0, after.Stock)

	err = applyCommitted(t, db, Movement{
		ProductID: p.ID, ProductName: p.Name,
		Delta: -1, Type: models.MovementSale, ActorID: 1,
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
}

func TestApplyZeroDelta(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Sugar 1kg", 10)

	err := applyCommitted(t, db, Movement{
		ProductID: p.ID, ProductName: p.Name,
		Delta: 0, Type: models.MovementSale, ActorID: 1,
	})
	require.Error(t, err)
}

func TestLedgerReconciliation(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Sugar 1kg", 20)

	steps := []Movement{
		{ProductID: p.ID, ProductName: p.Name, Delta: 50, Type: models.MovementPurchase, ActorID: 1},
		{ProductID: p.ID, ProductName: p.Name, Delta: -10, Type: models.MovementSale, ActorID: 1},
		{ProductID: p.ID, ProductName: p.Name, Delta: -5, Type: models.MovementDamage, ActorID: 1},
		{ProductID: p.ID, ProductName: p.Name, Delta: -2, Type: models.MovementExpired, ActorID: 1},
	}
	for _, m := range steps {
		require.NoError(t, applyCommitted(t, db, m))
	}

	var after models.Product
	require.NoError(t, db.First(&after, p.ID).Error)

	var movements []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", p.ID).Find(&movements).Error)
	require.Len(t, movements, len(steps))

	deltaSum := 0
	for _, m := range movements {
		deltaSum += m.ChangeQty
	}
	assert.Equal(t, after.Stock, 20+deltaSum)
	assert.Equal(t, 53, after.Stock)
}
