package billing

import (
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"
	"market-backend/internal/stock"

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

func createProduct(t *testing.T, db *gorm.DB, name, code string, price, gst float64, stockQty int) models.Product {
	t.Helper()
	p := models.Product{Name: name, ProductCode: code, Price: price, GST: gst, Stock: stockQty}
	require.NoError(t, db.Create(&p).Error)
	return p
}

var testActor = auth.Actor{UserID: 1, Username: "kasiyer"}

func TestCheckoutTotalsAndLedger(t *testing.T) {
	db := setupTestDB(t)
	rice := createProduct(t, db, "Rice 1kg", "RICE100", 60.0, 5.0, 100)

	result, err := Checkout(testActor, CheckoutInput{
		Cart: []CartItem{
			{ProductID: rice.ID, ProductName: rice.Name, Price: 60.0, GST: 5.0, Quantity: 2},
		},
		Discount:    0,
		PaymentMode: "Cash",
	})
	require.NoError(t, err)

	// subtotal=120, KDV=6, toplam=126
	assert.InDelta(t, 126.0, result.Total, 0.01)

	var bill models.Bill
	require.NoError(t, db.Preload("Items").First(&bill, result.BillID).Error)
	assert.Equal(t, result.BillNumber, bill.BillNumber)
	assert.Len(t, bill.Items, 1)
	assert.Equal(t, "Rice 1kg", bill.Items[0].ProductName)
	assert.Equal(t, 2, bill.Items[0].Quantity)

	// sum(item_total) == bill.total + bill.discount (2 ondalık tolerans)
	itemSum := 0.0
	for _, it := range bill.Items {
		itemSum += it.ItemTotal
	}
	assert.InDelta(t, bill.Total+bill.Discount, itemSum, 0.01)

	// Stok 2 azaldı
	var after models.Product
	require.NoError(t, db.First(&after, rice.ID).Error)
	assert.Equal(t, 98, after.Stock)

	// Faturaya bağlı tek bir SALE hareketi, delta -2
	var movements []models.StockMovement
	require.NoError(t, db.Where("product_id = ?", rice.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementSale, movements[0].Type)
	assert.Equal(t, -2, movements[0].ChangeQty)
	require.NotNil(t, movements[0].ReferenceID)
	assert.Equal(t, bill.ID, *movements[0].ReferenceID)
	assert.Equal(t, testActor.UserID, movements[0].CreatedBy)

	// Defter mutabakatı: başlangıç + delta toplamı == güncel stok
	deltaSum := 0
	for _, m := range movements {
		deltaSum += m.ChangeQty
	}
	assert.Equal(t, after.Stock, 100+deltaSum)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	rice := createProduct(t, db, "Rice 1kg", "RICE100", 60.0, 5.0, 100)

	input := CheckoutInput{
		Cart: []CartItem{
			{ProductID: rice.ID, ProductName: rice.Name, Price: 60.0, GST: 5.0, Quantity: 1000},
		},
	}

	// Aynı hata iki çağrıda da aynı şekilde dönmeli, yan etkisiz
	for i := 0; i < 2; i++ {
		_, err := Checkout(testActor, input)
		require.Error(t, err)
		var stockErr *stock.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Rice 1kg", stockErr.ProductName)
	}

	var billCount, itemCount, movementCount int64
	db.Model(&models.Bill{}).Count(&billCount)
	db.Model(&models.BillItem{}).Count(&itemCount)
	db.Model(&models.StockMovement{}).Count(&movementCount)
	assert.Zero(t, billCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, movementCount)

	var after models.Product
	require.NoError(t, db.First(&after, rice.ID).Error)
	assert.Equal(t, 100, after.Stock)
}

func TestCheckoutPartialCartRollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	rice := createProduct(t, db, "Rice 1kg", "RICE100", 60.0, 5.0, 100)
	milk := createProduct(t, db, "Milk 500ml", "MILK500", 25.0, 5.0, 3)

	_, err := Checkout(testActor, CheckoutInput{
		Cart: []CartItem{
			{ProductID: rice.ID, ProductName: rice.Name, Price: 60.0, GST: 5.0, Quantity: 2},
			{ProductID: milk.ID, ProductName: milk.Name, Price: 25.0, GST: 5.0, Quantity: 10},
		},
	})
	var stockErr *stock.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Milk 500ml", stockErr.ProductName)

	// İlk kalemin düşümü dahil hiçbir şey kalmamalı
	var billCount, movementCount int64
	db.Model(&models.Bill{}).Count(&billCount)
	db.Model(&models.StockMovement{}).Count(&movementCount)
	assert.Zero(t, billCount)
	assert.Zero(t, movementCount)

	var riceAfter, milkAfter models.Product
	require.NoError(t, db.First(&riceAfter, rice.ID).Error)
	require.NoError(t, db.First(&milkAfter, milk.ID).Error)
	assert.Equal(t, 100, riceAfter.Stock)
	assert.Equal(t, 3, milkAfter.Stock)
}

func TestCheckoutTotalsReconcileAcrossManyLines(t *testing.T) {
	db := setupTestDB(t)
	gum := createProduct(t, db, "Gum", "GUM001", 0.67, 50.0, 100)

	// Her satır tek başına yuvarlama sınırında (0.67 + %50 KDV = 1.005).
	// Toplam, yuvarlanmış kalem tutarlarından türediği için satır sayısı
	// artsa da kalemlerle mutabakat bozulmamalı.
	cart := make([]CartItem, 0, 10)
	for i := 0; i < 10; i++ {
		cart = append(cart, CartItem{
			ProductID: gum.ID, ProductName: gum.Name,
			Price: 0.67, GST: 50.0, Quantity: 1,
		})
	}

	result, err := Checkout(testActor, CheckoutInput{Cart: cart})
	require.NoError(t, err)

	var bill models.Bill
	require.NoError(t, db.Preload("Items").First(&bill, result.BillID).Error)
	require.Len(t, bill.Items, 10)

	itemSum := 0.0
	for _, it := range bill.Items {
		itemSum += it.ItemTotal
	}
	assert.InDelta(t, bill.Total+bill.Discount, itemSum, 0.01)

	var after models.Product
	require.NoError(t, db.First(&after, gum.ID).Error)
	assert.Equal(t, 90, after.Stock)
}

func TestCheckoutEmptyCart(t *testing.T) {
	setupTestDB(t)

	_, err := Checkout(testActor, CheckoutInput{Cart: nil})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutDiscount(t *testing.T) {
	db := setupTestDB(t)
	milk := createProduct(t, db, "Milk 500ml", "MILK500", 25.0, 5.0, 50)

	// subtotal=50, KDV=2.5, indirim=20 → 32.5
	result, err := Checkout(testActor, CheckoutInput{
		Cart: []CartItem{
			{ProductID: milk.ID, ProductName: milk.Name, Price: 25.0, GST: 5.0, Quantity: 2},
		},
		Discount: 20,
	})
	require.NoError(t, err)
	assert.InDelta(t, 32.5, result.Total, 0.01)
}

func TestCheckoutDiscountExceedsTotal(t *testing.T) {
	db := setupTestDB(t)
	milk := createProduct(t, db, "Milk 500ml", "MILK500", 25.0, 5.0, 50)

	// subtotal=50, KDV=2.5 → 52.5'ten büyük indirim reddedilir
	_, err := Checkout(testActor, CheckoutInput{
		Cart: []CartItem{
			{ProductID: milk.ID, ProductName: milk.Name, Price: 25.0, GST: 5.0, Quantity: 2},
		},
		Discount: 60,
	})
	var invalidErr *InvalidInputError
	require.ErrorAs(t, err, &invalidErr)

	var billCount int64
	db.Model(&models.Bill{}).Count(&billCount)
	assert.Zero(t, billCount)
}

func TestCheckoutInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	milk := createProduct(t, db, "Milk 500ml", "MILK500", 25.0, 5.0, 50)

	cases := []struct {
		name  string
		input CheckoutInput
	}{
		{"negatif indirim", CheckoutInput{
			Cart:     []CartItem{{ProductID: milk.ID, ProductName: milk.Name, Price: 25.0, GST: 5.0, Quantity: 1}},
			Discount: -5,
		}},
		{"sıfır miktar", CheckoutInput{
			Cart: []CartItem{{ProductID: milk.ID, ProductName: milk.Name, Price: 25.0, GST: 5.0, Quantity: 0}},
		}},
		{"negatif fiyat", CheckoutInput{
			Cart: []CartItem{{ProductID: milk.ID, ProductName: milk.Name, Price: -1, GST: 5.0, Quantity: 1}},
		}},
		{"ürün kimliği eksik", CheckoutInput{
			Cart: []CartItem{{ProductName: milk.Name, Price: 25.0, GST: 5.0, Quantity: 1}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Checkout(testActor, tc.input)
			var invalidErr *InvalidInputError
			require.ErrorAs(t, err, &invalidErr)
		})
	}
}

func TestNewBillNumberFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	no := newBillNumber(now)
	assert.Regexp(t, regexp.MustCompile(`^BILL20250314150926-[0-9a-f]{4}$`), no)

	// Aynı saniyede bile sonekler farklı olmalı
	assert.NotEqual(t, newBillNumber(now), newBillNumber(now))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 126.0, round2(126.000001))
	assert.Equal(t, 32.5, round2(32.499999))
	assert.Equal(t, 0.1, round2(0.104))
}
