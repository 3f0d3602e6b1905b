package middleware

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// RecoveryMiddleware recovers from panics and returns 500 error
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				log.Printf("PANIC: %v\n%s", r, stack)

				err := c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "An unexpected error occurred",
				})
				if err != nil {
					log.Printf("Error sending panic response: %v", err)
				}
			}
		}()

		return c.Next()
	}
}
