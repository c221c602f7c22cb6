package activity

import (
	"log"

	"market-backend/internal/database"
	"market-backend/internal/models"
)

// Log: Aktivite kaydı düşer. İş işleminin parçası değildir; yazma hatası
// yutulur ve yalnızca diagnostik log'a gider. Transaction commit edildikten
// SONRA çağrılmalı, asla transaction içinden değil.
func Log(userID uint, action, details string) {
	entry := models.ActivityLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Aktivite kaydı yazılamadı (%s): %v", action, err)
	}
}
