package inventory

import (
	"fmt"
	"path/filepath"
	"strings"

	"market-backend/internal/activity"
	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// validateImportFilename: Yalnızca .xlsx kabul edilir. Eski ikili .xls
// formatı okunamadığı için uzantı aşamasında açıkça reddedilir.
func validateImportFilename(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return nil
	case ".xls":
		return fmt.Errorf("Eski .xls formatı desteklenmiyor. Dosyayı .xlsx olarak kaydedip tekrar yükleyin")
	default:
		return fmt.Errorf("Geçersiz dosya tipi. Excel dosyası yükleyin (.xlsx)")
	}
}

// POST /api/products/bulk-import
// Excel dosyasından toplu ürün yükleme. Satır hataları içe aktarmayı
// durdurmaz; yanıtta satır satır raporlanır.
func BulkImportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya seçilmedi")
		}

		if err := validateImportFilename(fileHeader.Filename); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya açılamadı")
		}
		defer file.Close()

		f, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı")
		}
		defer func() { _ = f.Close() }()

		sheet := f.GetSheetName(f.GetActiveSheetIndex())
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel sayfası okunamadı")
		}

		products, rowErrors, err := parseProductSheet(rows)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		imported := 0
		for _, p := range products {
			var count int64
			database.DB.Model(&models.Product{}).Where("name = ?", p.Name).Count(&count)
			if count > 0 {
				rowErrors = append(rowErrors, fmt.Sprintf("'%s' ürünü zaten var", p.Name))
				continue
			}
			if p.ProductCode != "" {
				database.DB.Model(&models.Product{}).Where("product_code = ?", p.ProductCode).Count(&count)
				if count > 0 {
					rowErrors = append(rowErrors, fmt.Sprintf("'%s' ürün kodu zaten var", p.ProductCode))
					continue
				}
			}

			if err := database.DB.Create(&p).Error; err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("'%s' kaydedilemedi: %v", p.Name, err))
				continue
			}
			imported++
		}

		activity.Log(actor.UserID, "Bulk Import",
			fmt.Sprintf("Excel dosyasından %d ürün içe aktarıldı", imported))

		return c.JSON(fiber.Map{
			"imported": imported,
			"errors":   rowErrors,
		})
	}
}

// GET /api/products/import-template
// Toplu yükleme için örnek Excel şablonu üretir.
func ImportTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()

		sheet := f.GetSheetName(f.GetActiveSheetIndex())

		header := []interface{}{"name", "price", "gst", "stock", "product_code"}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şablon oluşturulamadı")
		}

		samples := [][]interface{}{
			{"Rice 1kg", 60.0, 5.0, 100, "RICE100"},
			{"Milk 500ml", 25.0, 5.0, 50, "MILK500"},
			{"Sugar 1kg", 45.0, 5.0, 75, "SUGAR100"},
			{"Oil 1L", 120.0, 5.0, 30, "OIL100"},
		}
		for i, row := range samples {
			r := row
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &r); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şablon oluşturulamadı")
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şablon oluşturulamadı")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", "attachment; filename=product_template.xlsx")
		return c.Send(buf.Bytes())
	}
}
