package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/session"
	"github.com/benjamintzh/KNY/pkg/validator"
)

// SessionCookie describes how the opaque session token travels to the
// browser: http-only, SameSite=Lax, Secure outside development.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (sc SessionCookie) set(c *fiber.Ctx, sess *session.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   sc.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (sc SessionCookie) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   sc.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// parseAndValidate decodes the JSON body into dst and runs struct validation,
// wrapping failures so the central translator maps them to 400.
func parseAndValidate(c *fiber.Ctx, v *validator.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.NewValidation("Invalid request body")
	}
	if err := v.Validate(dst); err != nil {
		return domain.NewValidation(err.Error())
	}
	return nil
}
