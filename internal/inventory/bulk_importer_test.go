package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductSheet(t *testing.T) {
	rows := [][]string{
		{"Name", "Price", "GST", "Stock", "Product_Code"},
		{"Rice 1kg", "60", "5", "100", "rice100"},
		{"Milk 500ml", "25.50", "5", "40", ""},
	}

	products, errs, err := parseProductSheet(rows)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, products, 2)

	assert.Equal(t, "Rice 1kg", products[0].Name)
	assert.Equal(t, "RICE100", products[0].ProductCode) // kod büyük harfe çevrilir
	assert.Equal(t, 60.0, products[0].Price)
	assert.Equal(t, 5.0, products[0].GST)
	assert.Equal(t, 100, products[0].Stock)

	assert.Equal(t, 25.5, products[1].Price)
	assert.Equal(t, "", products[1].ProductCode)
}

func TestParseProductSheetMissingColumns(t *testing.T) {
	rows := [][]string{
		{"Name", "Price"},
		{"Rice 1kg", "60"},
	}

	_, _, err := parseProductSheet(rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name, price, gst, stock")
}

func TestParseProductSheetEmptyFile(t *testing.T) {
	_, _, err := parseProductSheet(nil)
	require.Error(t, err)
}

func TestParseProductSheetRowErrors(t *testing.T) {
	rows := [][]string{
		{"name", "price", "gst", "stock"},
		{"", "60", "5", "100"},          // ad boş
		{"Rice 1kg", "abc", "5", "100"}, // fiyat bozuk
		{"Milk 500ml", "25", "5", "-3"}, // negatif stok
		{"Eggs 12pcs", "80", "0", "30"}, // geçerli
		{"Bread", "12", "1"},            // eksik hücre, stok boş sayılır
	}

	products, errs, err := parseProductSheet(rows)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "Eggs 12pcs", products[0].Name)

	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], "Satır 2")
	assert.Contains(t, errs[1], "Satır 3")
	assert.Contains(t, errs[2], "Satır 4")
	assert.Contains(t, errs[3], "Satır 6")
}
