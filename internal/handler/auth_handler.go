package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/handler/middleware"
	"github.com/benjamintzh/KNY/internal/service"
	"github.com/benjamintzh/KNY/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validator
	cookie      SessionCookie
}

func NewAuthHandler(authService *service.AuthService, validator *validator.Validator, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		cookie:      cookie,
	}
}

// Login handles password login
// POST /api/user/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	// Any id the client presented before authenticating is discarded inside
	// Login; the cookie set below always carries a freshly minted id.
	priorSessionID := middleware.SessionID(c, h.cookie.Name)

	user, sess, err := h.authService.Login(c.Context(), req, priorSessionID)
	if err != nil {
		return err
	}

	h.cookie.set(c, sess)
	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout invalidates the current session
// POST /api/user/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID := middleware.SessionID(c, h.cookie.Name)
	if err := h.authService.Logout(c.Context(), sessionID); err != nil {
		return err
	}

	h.cookie.clear(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}
