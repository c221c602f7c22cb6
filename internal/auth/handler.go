package auth

import (
	"fmt"
	"strings"

	"market-backend/internal/activity"
	"market-backend/internal/config"
	"market-backend/internal/database"
	"market-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register-admin
// İlk kurulum için: sistemde hiç admin yoksa bir tane oluşturur.
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		if body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı ve şifre zorunlu")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir admin var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			FullName:     body.FullName,
			Email:        body.Email,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		if body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kullanıcı adı ve şifre zorunlu")
		}

		var user models.User
		if err := database.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı adı veya şifre hatalı")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı adı veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		activity.Log(user.ID, "Login", fmt.Sprintf("%s giriş yaptı", user.Username))

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":        user.ID,
				"username":  user.Username,
				"full_name": user.FullName,
				"role":      user.Role,
				"store_id":  user.StoreID,
			},
		})
	}
}

// POST /api/auth/logout
// Token stateless olduğu için sunucuda geçersiz kılma yok; sadece kayıt düşer.
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return err
		}
		activity.Log(actor.UserID, "Logout", fmt.Sprintf("%s çıkış yaptı", actor.Username))
		return c.JSON(fiber.Map{"message": "Çıkış yapıldı"})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := CurrentActor(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, actor.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bulunamadı")
		}

		response := fiber.Map{
			"user_id":   user.ID,
			"username":  user.Username,
			"full_name": user.FullName,
			"email":     user.Email,
			"role":      user.Role,
			"store_id":  user.StoreID,
		}

		// Mağazaya bağlı kullanıcıysa mağaza bilgisini de ekle
		if user.StoreID != nil {
			var store models.Store
			if err := database.DB.First(&store, *user.StoreID).Error; err == nil {
				response["store"] = fiber.Map{
					"id":       store.ID,
					"name":     store.Name,
					"location": store.Location,
					"phone":    store.Phone,
				}
			}
		}

		return c.JSON(response)
	}
}
