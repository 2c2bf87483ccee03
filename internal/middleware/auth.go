package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"media-catalog-service/internal/token"
)

// UserIDKey is the Locals key the auth middleware stores the
// authenticated user id under.
const UserIDKey = "user_id"

// RequireAccess validates a Bearer access token and stores the user id
// in the request locals. All failures get the same generic 401 so the
// response does not reveal why the token was rejected.
func RequireAccess(tokens *token.Manager) fiber.Handler {
	return requireToken(tokens, token.UseAccess)
}

// RequireRefresh validates a Bearer refresh token, for the refresh route
// only.
func RequireRefresh(tokens *token.Manager) fiber.Handler {
	return requireToken(tokens, token.UseRefresh)
}

func requireToken(tokens *token.Manager, use string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}

		userID, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "), use)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id stored by the auth
// middleware, or zero when the request is unauthenticated.
func UserID(c fiber.Ctx) int64 {
	if id, ok := c.Locals(UserIDKey).(int64); ok {
		return id
	}
	return 0
}
