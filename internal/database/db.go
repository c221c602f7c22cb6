package database

import (
	"log"

	"market-backend/internal/config"
	"market-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Product{},
		&models.Bill{},
		&models.BillItem{},
		&models.Purchase{},
		&models.StockMovement{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	seedDefaults()

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// seedDefaults: İlk kurulumda varsayılan admin ve demo ürünleri oluşturur.
func seedDefaults() {
	var adminCount int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Varsayılan admin şifresi hashlenemedi: %v", err)
			return
		}
		admin := models.User{
			Username:     "admin",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			FullName:     "Sistem Yöneticisi",
		}
		if err := DB.Create(&admin).Error; err != nil {
			log.Printf("Varsayılan admin oluşturulamadı: %v", err)
		} else {
			log.Println("Varsayılan admin oluşturuldu (kullanıcı: admin, şifre: admin123). İlk girişten sonra şifreyi değiştir!")
		}
	}

	var productCount int64
	DB.Model(&models.Product{}).Count(&productCount)
	if productCount == 0 {
		demo := []models.Product{
			{Name: "Rice 1kg", Price: 60.0, GST: 5.0, Stock: 100, ProductCode: "RICE100"},
			{Name: "Milk 500ml", Price: 25.0, GST: 5.0, Stock: 50, ProductCode: "MILK500"},
			{Name: "Sugar 1kg", Price: 45.0, GST: 5.0, Stock: 75, ProductCode: "SUGAR100"},
			{Name: "Oil 1L", Price: 120.0, GST: 5.0, Stock: 30, ProductCode: "OIL100"},
			{Name: "Bread", Price: 30.0, GST: 5.0, Stock: 40, ProductCode: "BREAD001"},
			{Name: "Eggs 12pcs", Price: 80.0, GST: 5.0, Stock: 25, ProductCode: "EGGS012"},
		}
		if err := DB.Create(&demo).Error; err != nil {
			log.Printf("Demo ürünler oluşturulamadı: %v", err)
		} else {
			log.Println("Demo ürünler oluşturuldu")
		}
	}
}
