package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bfgbuilds/buildmanager/buildmanager/logger"
	"github.com/bfgbuilds/buildmanager/web/handlers"
	"github.com/bfgbuilds/buildmanager/web/utils"
)

// AuthRequired rejects requests without a valid session and puts the
// session into the request context for downstream handlers.
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.Sessions.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session",
				slog.String("type", "web"),
				slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Not authenticated")
		}

		c.Locals("user", session)
		return c.Next()
	}
}

// LoggingMiddleware logs every handled request with its outcome.
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		attrs := []any{slog.String("ip", c.IP())}
		if session, ok := utils.ExtractUserSession(c); ok {
			attrs = append(attrs, slog.String("username", session.Username))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}

		logger.LogRequest(c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start), attrs...)
		return err
	}
}

// SecurityHeaders adds the standard security headers to every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// CustomErrorHandler turns errors that escape the handlers into the API's
// uniform `{"message": ...}` shape without leaking internals.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code == fiber.StatusInternalServerError {
		logger.LogError("Unhandled request error", err,
			slog.String("method", c.Method()),
			slog.String("path", c.Path()))
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{"message": message})
}
