package middlewares

import (
	"pesantren_backend/internals/metrics"
	"pesantren_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(metrics.HTTPMiddleware())
	app.Use(GlobalRateLimiter())
}
