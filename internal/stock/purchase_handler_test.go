package stock

import (
	"testing"
	"time"

	"market-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDuplicatePurchase(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Flour 1kg", 10)

	body := CreatePurchaseRequest{
		ProductID: p.ID,
		Quantity:  40,
		CostPrice: 32.5,
		Supplier:  "Anadolu Gıda",
	}

	// Henüz kayıt yokken tekrar sayılmaz
	dup, err := isDuplicatePurchase(db, body, 1)
	require.NoError(t, err)
	assert.False(t, dup)

	require.NoError(t, db.Create(&models.Purchase{
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
		CostPrice: body.CostPrice,
		Supplier:  body.Supplier,
		CreatedBy: 1,
	}).Error)

	dup, err = isDuplicatePurchase(db, body, 1)
	require.NoError(t, err)
	assert.True(t, dup)

	// Beşlinin herhangi bir alanı farklıysa tekrar değildir
	other := body
	other.Quantity = 41
	dup, err = isDuplicatePurchase(db, other, 1)
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = isDuplicatePurchase(db, body, 2)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestIsDuplicatePurchaseWindowExpires(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Flour 1kg", 10)

	body := CreatePurchaseRequest{
		ProductID: p.ID,
		Quantity:  40,
		CostPrice: 32.5,
		Supplier:  "Anadolu Gıda",
	}

	old := models.Purchase{
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
		CostPrice: body.CostPrice,
		Supplier:  body.Supplier,
		CreatedBy: 1,
	}
	old.CreatedAt = time.Now().Add(-2 * time.Minute)
	require.NoError(t, db.Create(&old).Error)

	dup, err := isDuplicatePurchase(db, body, 1)
	require.NoError(t, err)
	assert.False(t, dup)
}
