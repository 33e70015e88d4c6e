package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserID returns the authenticated user id stashed by the JWT middleware.
func UserID(c *fiber.Ctx) (string, bool) {
	if v := c.Locals("user_id"); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// UserName returns the authenticated user's display name, when the token
// carried one.
func UserName(c *fiber.Ctx) (string, bool) {
	if v := c.Locals("user_name"); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// Context returns the request-scoped context for downstream calls.
func Context(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
