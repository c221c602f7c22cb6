package billing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"
	"market-backend/internal/stock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmptyCart = errors.New("sepet boş")

// InvalidInputError: İş kuralına takılan girdi (negatif indirim, sıfır miktar
// vb). Kalıcı hiçbir şey yazılmadan döner.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

// CartItem: Kasadan gelen satır. Fiyat ve KDV, kasiyerin ekranda gördüğü
// değerlerdir; üründen tekrar okunmaz ki fatura gerçekte ne tahsil edildiyse
// onu yansıtsın.
type CartItem struct {
	ProductID   uint    `json:"id"`
	ProductName string  `json:"name"`
	Price       float64 `json:"price"`
	GST         float64 `json:"gst"`
	Quantity    int     `json:"qty"`
}

type CheckoutInput struct {
	Cart        []CartItem
	Discount    float64
	PaymentMode string
}

type CheckoutResult struct {
	BillID     uint
	BillNumber string
	Total      float64
}

// Checkout: Sepeti tek bir atomik işlemle faturaya çevirir. Fatura başlığı,
// kalemler, stok düşümleri ve SALE defter kayıtları ya hep beraber commit
// edilir ya da hiçbiri kalmaz. Stok yetersizse InsufficientStockError döner
// ve veritabanı durumu değişmez.
func Checkout(actor auth.Actor, in CheckoutInput) (*CheckoutResult, error) {
	if len(in.Cart) == 0 {
		return nil, ErrEmptyCart
	}
	if in.Discount < 0 {
		return nil, &InvalidInputError{Reason: "İndirim negatif olamaz"}
	}
	if in.PaymentMode == "" {
		in.PaymentMode = "Cash"
	}

	// Fatura toplamı, yuvarlanmış kalem tutarlarının toplamından türetilir.
	// Kalemler tek tek yuvarlanıp toplam ham değerden yuvarlansaydı, fark
	// satır sayısıyla büyür ve fatura kalemleriyle mutabık kalmazdı.
	itemSum := 0.0
	for _, it := range in.Cart {
		if it.ProductID == 0 {
			return nil, &InvalidInputError{Reason: "Sepette ürün kimliği eksik"}
		}
		if it.Quantity <= 0 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("Geçersiz miktar: %s", it.ProductName)}
		}
		if it.Price < 0 || it.GST < 0 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("Geçersiz fiyat veya KDV: %s", it.ProductName)}
		}
		lineSubtotal := it.Price * float64(it.Quantity)
		itemSum += round2(lineSubtotal + lineSubtotal*it.GST/100)
	}

	total := round2(itemSum - in.Discount)
	if total < 0 {
		// İndirim toplamı aşamaz; eksi tutarlı fatura kesilmez
		return nil, &InvalidInputError{Reason: "İndirim fatura toplamından büyük olamaz"}
	}

	// Fatura numarası saniye çözünürlüklü zaman + rastgele sonek taşır. Aynı
	// saniyede biten iki satış yine de çakışırsa yeni sonekle bir kez daha
	// denenir.
	result, err := runCheckoutTx(actor, in, total)
	if err != nil && isUniqueViolation(err) {
		result, err = runCheckoutTx(actor, in, total)
	}
	return result, err
}

func runCheckoutTx(actor auth.Actor, in CheckoutInput, total float64) (*CheckoutResult, error) {
	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("işlem başlatılamadı: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	bill := models.Bill{
		BillNumber:  newBillNumber(time.Now()),
		Total:       round2(total),
		Discount:    in.Discount,
		PaymentMode: in.PaymentMode,
		BillDate:    time.Now(),
		CreatedBy:   actor.UserID,
	}
	if err := tx.Create(&bill).Error; err != nil {
		tx.Rollback()
		// Numara çakışması buraya düşer; Checkout bir kez daha dener
		return nil, fmt.Errorf("fatura oluşturulamadı: %w", err)
	}

	for _, it := range in.Cart {
		lineSubtotal := it.Price * float64(it.Quantity)
		itemTotal := lineSubtotal + lineSubtotal*it.GST/100

		item := models.BillItem{
			BillID:      bill.ID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			GST:         it.GST,
			ItemTotal:   round2(itemTotal),
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("fatura kalemi kaydedilemedi: %w", err)
		}

		refID := bill.ID
		if err := stock.Apply(tx, stock.Movement{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Delta:       -it.Quantity,
			Type:        models.MovementSale,
			ReferenceID: &refID,
			ActorID:     actor.UserID,
		}); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("işlem tamamlanamadı: %w", err)
	}

	return &CheckoutResult{
		BillID:     bill.ID,
		BillNumber: bill.BillNumber,
		Total:      bill.Total,
	}, nil
}

func newBillNumber(now time.Time) string {
	return fmt.Sprintf("BILL%s-%s", now.Format("20060102150405"), uuid.NewString()[:4])
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
