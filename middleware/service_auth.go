package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireServiceToken guards mutating routes. The expected token comes
// from INGEST_SERVICE_TOKEN and may arrive as X-Service-Token or as a
// bearer token. When the env var is unset the guard rejects everything,
// so a misconfigured deployment fails closed.
func RequireServiceToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := os.Getenv("INGEST_SERVICE_TOKEN")
		if expected == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "service token is not configured",
			})
		}

		token := c.Get("X-Service-Token")
		if token == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token != expected {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing service token",
			})
		}
		return c.Next()
	}
}
