// Package web assembles the Fiber application serving the admin API.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bfgbuilds/buildmanager/web/handlers"
	"github.com/bfgbuilds/buildmanager/web/middleware"
)

// NewApp builds the HTTP application around the given dependencies. When
// uploadsDir is non-empty the directory is served under /uploads for locally
// stored build images.
func NewApp(webApp *handlers.WebApp, uploadsDir string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Albion Build Manager",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	app.Get("/health", handlers.HealthCheck(webApp))

	if uploadsDir != "" {
		app.Static("/uploads", uploadsDir)
	}

	api := app.Group("/api")

	api.Post("/login", handlers.Login(webApp))
	api.Post("/logout", handlers.Logout(webApp))
	api.Get("/user", middleware.AuthRequired(webApp), handlers.CurrentUser(webApp))

	// Build reads are public, the bot and the dashboard list views share
	// them. Writes require a session.
	api.Get("/builds", handlers.BuildsList(webApp))
	api.Get("/builds/:id", handlers.BuildsDetail(webApp))

	authRequired := middleware.AuthRequired(webApp)
	api.Post("/builds", authRequired, handlers.BuildsCreate(webApp))
	api.Put("/builds/:id", authRequired, handlers.BuildsUpdate(webApp))
	api.Delete("/builds/:id", authRequired, handlers.BuildsDelete(webApp))

	api.Get("/bot-settings", authRequired, handlers.BotSettingsGet(webApp))
	api.Post("/bot-settings", authRequired, handlers.BotSettingsUpdate(webApp))

	return app
}
