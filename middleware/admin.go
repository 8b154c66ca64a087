package middleware

import (
	"log"

	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// IsAdmin reports whether the caller carries the gateway admin role or is
// flagged as admin in the users table. The answer is cached per request.
func IsAdmin(c *fiber.Ctx, db *gorm.DB) (bool, error) {
	if v, ok := c.Locals("is_admin").(bool); ok {
		return v, nil
	}
	if HasRole(c, RoleAdmin) {
		c.Locals("is_admin", true)
		return true, nil
	}
	userID := UserID(c)
	if userID == "" {
		return false, nil
	}

	var count int64
	if err := db.WithContext(c.UserContext()).Model(&models.User{}).
		Where("id = ? AND is_admin = ?", userID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	c.Locals("is_admin", count > 0)
	return count > 0, nil
}

// AdminOnly must run after UserContextMiddleware.
func AdminOnly(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := IsAdmin(c, db)
		if err != nil {
			log.Printf("❌ [ADMIN] lookup failed for %s: %v", UserID(c), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to verify admin"})
		}
		if !ok {
			log.Printf("🚫 [ADMIN] %s denied on %s", UserID(c), c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}
