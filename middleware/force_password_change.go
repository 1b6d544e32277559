package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"orgst/models"
)

// ForcePasswordChange blocks authenticated requests from accounts flagged
// must_change_password until they hit the change-password endpoint. Runs
// after Protected().
func ForcePasswordChange() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok || user == nil {
			return c.Next()
		}

		if user.MustChangePassword && !strings.HasSuffix(c.Path(), "/change-password") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "PASSWORD_CHANGE_REQUIRED",
			})
		}

		return c.Next()
	}
}
