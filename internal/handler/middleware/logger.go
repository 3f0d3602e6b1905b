package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoggerMiddleware logs HTTP requests and responses
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		log.Printf("[%s] %s - Completed in %v with status %d",
			c.Method(),
			c.Path(),
			latency,
			status,
		)

		return err
	}
}
