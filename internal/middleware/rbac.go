package middleware

import (
	"strings"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through when the user holds at least one of
// the given roles. Role names are compared case-insensitively.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, have := range claims.Roles {
			for _, want := range roles {
				if strings.EqualFold(have, want) {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: Insufficient permissions",
		})
	}
}
