package activity

import (
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LogResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	StoreName string `json:"store_name,omitempty"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

// GET /api/activity-logs
// Son 100 kaydı döndürür (sadece admin).
func ListLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var logs []models.ActivityLog
		if err := database.DB.
			Preload("User").
			Preload("User.Store").
			Order("created_at DESC").
			Limit(100).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aktivite kayıtları listelenemedi")
		}

		resp := make([]LogResponse, 0, len(logs))
		for _, l := range logs {
			r := LogResponse{
				ID:        l.ID,
				UserID:    l.UserID,
				Username:  l.User.Username,
				Action:    l.Action,
				Details:   l.Details,
				CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if l.User.Store != nil {
				r.StoreName = l.User.Store.Name
			}
			resp = append(resp, r)
		}

		return c.JSON(resp)
	}
}
