package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/identity"
	"github.com/hudumalink/hudumalink-backend/internal/models"
)

// RequireAuth resolves the bearer token to a local user record, provisioning
// one on first sight with profile data from the identity provider. Any fault
// during lookup or provisioning fails closed with 401.
func RequireAuth(db *gorm.DB, provider identity.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "No authorization token provided",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		subjectID, err := provider.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		var user models.User
		err = db.Preload("DesignerProfile").
			Where("subject_id = ?", subjectID).
			First(&user).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile, ferr := provider.Fetch(c.Context(), subjectID)
			if ferr != nil {
				log.Println("auth: profile fetch failed:", ferr)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"message": "Invalid or expired token",
				})
			}

			user = models.User{
				SubjectID: subjectID,
				Name:      profile.Name,
				Email:     profile.Email,
				Phone:     profile.Phone,
				Avatar:    profile.Avatar,
				Roles:     models.StringList{string(models.RoleClient)},
			}
			if cerr := db.Create(&user).Error; cerr != nil {
				log.Println("auth: user provisioning failed:", cerr)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"success": false,
					"message": "Invalid or expired token",
				})
			}
			log.Println("auth: new user provisioned:", user.Email)
		} else if err != nil {
			log.Println("auth: user lookup failed:", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		if user.Banned {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Account suspended",
			})
		}

		c.Locals("user", &user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("user").(*models.User)
	return user, ok && user != nil
}
