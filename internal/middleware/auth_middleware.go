package middleware

import (
	"strings"

	"go-scanner-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Protected validates the caller's JWT and stores the identity in locals.
// The token comes from the Authorization header, or from a token query
// parameter for clients that cannot set headers (websocket upgrades).
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""

		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed token",
			})
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		return c.Next()
	}
}
