package admin

import (
	"fmt"
	"strings"

	"market-backend/internal/activity"
	"market-backend/internal/auth"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	StoreID   *uint  `json:"store_id"`
	StoreName string `json:"store_name,omitempty"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	StoreID  *uint  `json:"store_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// GET /api/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Preload("Store").Order("id DESC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}

		resp := make([]UserResponse, 0, len(users))
		for _, u := range users {
			r := UserResponse{
				ID:        u.ID,
				Username:  u.Username,
				Role:      string(u.Role),
				StoreID:   u.StoreID,
				FullName:  u.FullName,
				Email:     u.Email,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if u.Store != nil {
				r.StoreName = u.Store.Name
			}
			resp = append(resp, r)
		}
		return c.JSON(resp)
	}
}

// POST /api/users
// Mağaza rolleri (store_admin, store_user) mutlaka bir mağazaya bağlanmalı;
// admin mağazadan bağımsızdır.
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.CurrentActor(c)
		if err != nil {
			return err
		}

		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if body.Username == "" || body.Password == "" || body.Role == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı, şifre ve rol zorunlu")
		}

		role := models.UserRole(body.Role)
		switch role {
		case models.RoleAdmin:
			body.StoreID = nil
		case models.RoleStoreAdmin, models.RoleStoreUser:
			if body.StoreID == nil {
				return fiber.NewError(fiber.StatusBadRequest, "Mağaza rolleri için mağaza ataması zorunlu")
			}
			var store models.Store
			if err := database.DB.First(&store, *body.StoreID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Mağaza bulunamadı (ID: %d)", *body.StoreID))
			}
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", body.Username).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu kullanıcı adı zaten var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         role,
			StoreID:      body.StoreID,
			FullName:     strings.TrimSpace(body.FullName),
			Email:        strings.TrimSpace(body.Email),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		activity.Log(actor.UserID, "Add User",
			fmt.Sprintf("'%s' kullanıcısı '%s' rolüyle eklendi", user.Username, user.Role))

		return c.Status(fiber.StatusCreated).JSON(UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Role:      string(user.Role),
			StoreID:   user.StoreID,
			FullName:  user.FullName,
			Email:     user.Email,
			CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}
