package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSMiddleware allows exactly one trusted origin to call the API with
// credentials attached, and exposes the session cookie to it.
func CORSMiddleware(origin string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           3600,
	})
}
