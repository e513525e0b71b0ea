package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lewybagz/photoBomb/internal/service"
	"github.com/lewybagz/photoBomb/internal/store"
)

// Identity headers set for downstream handlers after authentication
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserName = "X-User-Name"
)

// RequireAuth validates the Bearer token and the cached session behind it,
// then stamps the member's identity onto the request headers. Everything
// under /protected runs behind it.
func RequireAuth(jwtService *service.JWTService, sessions *store.SessionStore) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header must be a Bearer token",
			})
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		session, err := sessions.Session(ctx, claims.UserID)
		if err != nil {
			log.Printf("Session lookup failed for %s: %v", claims.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to verify session",
			})
		}
		if session == nil || !session.IsValid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session is no longer valid",
			})
		}

		c.Request().Header.Set(HeaderUserID, claims.UserID)
		c.Request().Header.Set(HeaderUserName, claims.DisplayName)

		return c.Next()
	}
}
