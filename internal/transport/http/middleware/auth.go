package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/manify/cram-eats/internal/auth"
)

// NewAuthMiddleware validates the bearer token and records the active
// session. The session is refreshed on every authenticated request, so
// outbound calls always use the latest token and a logout (expired or
// missing token) is never bridged by a cached credential.
func NewAuthMiddleware(secret string, session *auth.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid header format"})
		}
		token := parts[1]

		claims, err := auth.ValidateToken(token, secret)
		if err != nil {
			session.Clear()
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: invalid token"})
		}

		session.Set(auth.User{ID: claims.UserID, Email: claims.Email}, token)

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}
