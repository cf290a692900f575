package middleware

import (
	"strings"

	"go-commerce-api/internal/model"
	"go-commerce-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// RequireAuth validates the JWT token and sets user info in context
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing authorization token"})
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_name", claims.Name)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// OptionalAuth resolves either an authenticated user or a guest session, so cart
// routes serve both. An invalid token is rejected rather than silently demoted
// to a guest.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			claims, err := jwt.ValidateToken(token)
			if err != nil {
				return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
			}
			c.Locals("user_id", claims.UserID)
			c.Locals("user_email", claims.Email)
			c.Locals("user_name", claims.Name)
			c.Locals("user_role", claims.Role)
			return c.Next()
		}

		if sessionID := c.Get("X-Session-Id"); sessionID != "" {
			c.Locals("session_id", sessionID)
			return c.Next()
		}

		return c.Status(401).JSON(fiber.Map{"success": false, "error": "A user token or X-Session-Id header is required"})
	}
}

// RequireAdmin gates admin routes. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(string)
		if !ok || role != string(model.RoleAdmin) {
			return c.Status(403).JSON(fiber.Map{"success": false, "error": "Forbidden: admin access required"})
		}
		return c.Next()
	}
}
