package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

// RequireRole gates a route on the resolved user's role set. 401 when no
// user is attached, 403 when the role is absent. No side effects.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		}

		if !user.HasRole(role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": string(role) + " only",
			})
		}

		return c.Next()
	}
}
