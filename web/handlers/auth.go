package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/web/models"
	"github.com/bfgbuilds/buildmanager/web/utils"
)

// Login handles POST /api/login with username/password credentials.
func Login(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid login payload")
		}
		if req.Username == "" || req.Password == "" {
			return utils.SendBadRequest(c, "Username and password are required")
		}

		user, err := webApp.Users.GetByUsername(c.Context(), req.Username)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendUnauthorized(c, "Invalid username or password")
			}
			slog.Error("Failed to load user",
				slog.String("type", "web"),
				slog.String("username", req.Username),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			return utils.SendUnauthorized(c, "Invalid username or password")
		}

		publicUser := &models.PublicUser{
			ID:       user.ID,
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		}
		if _, err := webApp.Sessions.CreateSession(c, publicUser); err != nil {
			slog.Error("Failed to create session",
				slog.String("type", "web"),
				slog.String("username", user.Username),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}

		return c.JSON(publicUser)
	}
}

// Logout handles POST /api/logout.
func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		webApp.Sessions.DestroySession(c)
		return c.JSON(fiber.Map{"message": "Logged out"})
	}
}

// CurrentUser handles GET /api/user for the active session.
func CurrentUser(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Not authenticated")
		}
		return c.JSON(&models.PublicUser{
			ID:       session.UserID,
			Username: session.Username,
			IsAdmin:  session.IsAdmin,
		})
	}
}
