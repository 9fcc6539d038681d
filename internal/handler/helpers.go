package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserID reads the authenticated user's ID set by RequireAuth.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Locals("user_id")
	if raw == nil {
		return uuid.Nil, errors.New("no authenticated user")
	}
	return uuid.Parse(raw.(string))
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
