package billing

import (
	"bytes"
	"fmt"

	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
)

// GET /api/bills/:id/receipt
// A4 fiş çıktısı (PDF).
func BillReceiptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		billID, err := c.ParamsInt("id")
		if err != nil || billID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fatura ID")
		}

		var bill models.Bill
		if err := database.DB.Preload("Items").First(&bill, billID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
		}

		pdfBytes, err := renderReceiptPDF(&bill)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş oluşturulamadı")
		}

		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", bill.BillNumber))
		return c.Send(pdfBytes)
	}
}

func renderReceiptPDF(bill *models.Bill) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Satış Fişi"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Fatura No: %s", bill.BillNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Tarih: %s", bill.BillDate.Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Ödeme: %s", bill.PaymentMode)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Tablo başlığı
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(70, 8, tr("Ürün"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Adet", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Fiyat", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "KDV %", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Tutar", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	subtotal := 0.0
	gstTotal := 0.0
	for _, it := range bill.Items {
		lineSubtotal := it.Price * float64(it.Quantity)
		subtotal += lineSubtotal
		gstTotal += lineSubtotal * it.GST / 100

		pdf.CellFormat(70, 8, tr(it.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", it.GST), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", it.ItemTotal), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.CellFormat(0, 7, fmt.Sprintf("Ara Toplam: %.2f", subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("KDV: %.2f", gstTotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("İndirim: %.2f", bill.Discount)), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Genel Toplam: %.2f", bill.Total), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
