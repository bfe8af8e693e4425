package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/buildmanager/logger"
	"github.com/bfgbuilds/buildmanager/buildmanager/services"
	websvc "github.com/bfgbuilds/buildmanager/web/services"
)

// WebApp bundles everything the HTTP handlers need.
type WebApp struct {
	Builds      repositories.BuildRepository
	Users       repositories.UserRepository
	BotSettings repositories.BotSettingsRepository
	Sessions    *websvc.SessionService
	Images      services.ImageStore
	// RestartBot recycles the Discord client after new settings are saved.
	// Nil when the process runs without the bot.
	RestartBot func(ctx context.Context) error
	// CheckStore pings the backing store. Nil for the in-memory driver,
	// which has nothing to reach.
	CheckStore func(ctx context.Context) error
	// BotRunning reports whether the Discord client is connected.
	BotRunning func() bool
}

// HealthCheck reports process liveness, store reachability and bot status.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "ok"
		database := "ok"

		if webApp.CheckStore != nil {
			if err := webApp.CheckStore(c.Context()); err != nil {
				status = "degraded"
				database = "unavailable"
				logger.LogError("Health check: store unreachable", err)
			}
		} else if _, err := webApp.Builds.GetAll(c.Context()); err != nil {
			status = "degraded"
			database = "unavailable"
		}

		resp := fiber.Map{
			"status":   status,
			"database": database,
			"time":     time.Now().UTC(),
		}
		if webApp.BotRunning != nil {
			bot := "offline"
			if webApp.BotRunning() {
				bot = "online"
			}
			resp["bot"] = bot
		}
		return c.JSON(resp)
	}
}

// parseID parses a route id parameter. Only positive integers are valid.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
