package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/appearly/facegate/internal/domain"
)

// Auth creates an authentication middleware using a static API key. The
// comparison runs over SHA-256 digests so its timing is independent of the
// position of the first mismatching byte.
func Auth(apiKey string) fiber.Handler {
	expected := sha256.Sum256([]byte(apiKey))

	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		provided := sha256.Sum256([]byte(token))
		if subtle.ConstantTimeCompare(expected[:], provided[:]) != 1 {
			return domain.ErrUnauthorized
		}

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
