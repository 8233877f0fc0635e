// Package http contains the inbound Fiber handlers.
package http

import (
	"mailmind_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// GetUserID extracts the authenticated user's id from request locals. The
// JWT middleware stores the token subject there, so a miss means the route
// was registered outside the protected group.
func GetUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", apperr.Unauthorized("")
	}
	return userID, nil
}

// QueryString returns a pointer to a query param, nil if absent.
func QueryString(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}
