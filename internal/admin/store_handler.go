package admin

import (
	"fmt"
	"strings"

	"market-backend/internal/activity"
	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StoreResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type CreateStoreRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

// GET /api/stores
func ListStoresHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var stores []models.Store
		if err := database.DB.Order("created_at DESC").Find(&stores).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağazalar listelenemedi")
		}

		resp := make([]StoreResponse, 0, len(stores))
		for _, s := range stores {
			resp = append(resp, StoreResponse{
				ID:        s.ID,
				Name:      s.Name,
				Location:  s.Location,
				Phone:     s.Phone,
				Active:    s.Active,
				CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/stores
func CreateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Mağaza adı zorunlu")
		}

		store := models.Store{
			Name:     body.Name,
			Location: strings.TrimSpace(body.Location),
			Phone:    strings.TrimSpace(body.Phone),
			Active:   true,
		}
		if err := database.DB.Create(&store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mağaza oluşturulamadı")
		}

		activity.Log(actor.UserID, "Add Store", fmt.Sprintf("'%s' mağazası eklendi", store.Name))

		return c.Status(fiber.StatusCreated).JSON(StoreResponse{
			ID:        store.ID,
			Name:      store.Name,
			Location:  store.Location,
			Phone:     store.Phone,
			Active:    store.Active,
			CreatedAt: store.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}
