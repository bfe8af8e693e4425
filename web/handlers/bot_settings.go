package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/models"
	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
	"github.com/bfgbuilds/buildmanager/web/utils"
)

// BotSettingsGet handles GET /api/bot-settings. When nothing is stored yet
// it returns an empty settings shape instead of a 404 so the settings form
// can render.
func BotSettingsGet(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		settings, err := webApp.BotSettings.Get(c.Context())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return c.JSON(&models.BotSettings{Prefix: models.DefaultPrefix})
			}
			slog.Error("Failed to load bot settings",
				slog.String("type", "web"),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}
		return c.JSON(settings)
	}
}

// BotSettingsUpdate handles POST /api/bot-settings, replacing the singleton
// record wholesale and recycling the Discord client with the new settings.
func BotSettingsUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input schema.BotSettingsInput
		if err := c.BodyParser(&input); err != nil {
			return utils.SendBadRequest(c, "Invalid settings payload")
		}

		settings, err := webApp.BotSettings.Upsert(c.Context(), &input)
		if err != nil {
			slog.Error("Failed to save bot settings",
				slog.String("type", "web"),
				slog.Any("error", err))
			return utils.SendInternalServerError(c)
		}

		// The bot restart is best effort. Bad credentials surface in the
		// logs, the settings are saved either way.
		if webApp.RestartBot != nil && settings.Configured() {
			if err := webApp.RestartBot(c.Context()); err != nil {
				slog.Error("Failed to restart bot with new settings",
					slog.String("type", "web"),
					slog.Any("error", err))
			}
		}

		return c.JSON(settings)
	}
}
