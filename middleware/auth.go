package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"project/config"
	"project/models"
	"project/utils"
)

// AuthMiddleware validates the JWT and stashes the user id in locals.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals("userId", userID)
		return c.Next()
	}
}

// TeacherMiddleware allows only users with the teacher role through.
func TeacherMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !user.IsTeacher() {
			return utils.Forbidden(c, "Teacher access required")
		}

		c.Locals("userId", userID)
		return c.Next()
	}
}
