package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"market-backend/internal/models"
)

// parseProductSheet: Excel satırlarını ürün kayıtlarına çevirir. İlk satır
// başlıktır; name, price, gst, stock kolonları zorunlu, product_code
// opsiyonel. Hatalı satırlar içe aktarmayı durdurmaz, hata listesine düşer.
func parseProductSheet(rows [][]string) ([]models.Product, []string, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("dosya boş")
	}

	header := map[string]int{}
	for i, col := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"name", "price", "gst", "stock"} {
		if _, ok := header[required]; !ok {
			return nil, nil, fmt.Errorf("Excel dosyası şu kolonları içermeli: name, price, gst, stock")
		}
	}

	cell := func(row []string, col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var products []models.Product
	var errs []string

	for i, row := range rows[1:] {
		rowNo := i + 2 // başlık satırından sonraki Excel satır numarası

		name := cell(row, "name")
		if name == "" {
			errs = append(errs, fmt.Sprintf("Satır %d: ürün adı boş olamaz", rowNo))
			continue
		}

		price, err := strconv.ParseFloat(cell(row, "price"), 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Satır %d: geçersiz fiyat '%s'", rowNo, cell(row, "price")))
			continue
		}
		gst, err := strconv.ParseFloat(cell(row, "gst"), 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Satır %d: geçersiz KDV '%s'", rowNo, cell(row, "gst")))
			continue
		}
		stockQty, err := strconv.Atoi(cell(row, "stock"))
		if err != nil {
			errs = append(errs, fmt.Sprintf("Satır %d: geçersiz stok '%s'", rowNo, cell(row, "stock")))
			continue
		}

		if price < 0 || gst < 0 || stockQty < 0 {
			errs = append(errs, fmt.Sprintf("Satır %d: fiyat, KDV ve stok negatif olamaz", rowNo))
			continue
		}

		products = append(products, models.Product{
			Name:        name,
			ProductCode: strings.ToUpper(cell(row, "product_code")),
			Price:       price,
			GST:         gst,
			Stock:       stockQty,
		})
	}

	return products, errs, nil
}
