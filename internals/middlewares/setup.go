package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares memasang middleware global (urutan penting)
func SetupMiddlewares(app *fiber.App) {
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
