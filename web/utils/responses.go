package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bfgbuilds/buildmanager/web/models"
)

// SendMessage sends a plain `{"message": ...}` JSON body with the given
// status. Every error response in the API uses this shape.
func SendMessage(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{"message": message})
}

// SendBadRequest sends a 400 error response.
func SendBadRequest(c *fiber.Ctx, message string) error {
	return SendMessage(c, http.StatusBadRequest, message)
}

// SendValidationErrors sends a 400 with the per-field violations.
func SendValidationErrors(c *fiber.Ctx, message string, fields map[string]string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"errors":  fields,
	})
}

// SendUnauthorized sends a 401 error response.
func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendMessage(c, http.StatusUnauthorized, message)
}

// SendNotFound sends a 404 error response.
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendMessage(c, http.StatusNotFound, message)
}

// SendInternalServerError sends a 500 with a generic message. Internal
// details never leave the server.
func SendInternalServerError(c *fiber.Ctx) error {
	return SendMessage(c, http.StatusInternalServerError, "Internal server error")
}

// ExtractUserSession returns the session placed in the context by the auth
// middleware.
func ExtractUserSession(c *fiber.Ctx) (*models.UserSession, bool) {
	session := c.Locals("user")
	if session == nil {
		return nil, false
	}

	userSession, ok := session.(*models.UserSession)
	return userSession, ok
}
