package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/handler/middleware"
	"github.com/benjamintzh/KNY/internal/service"
	"github.com/benjamintzh/KNY/pkg/validator"
)

type UserHandler struct {
	authService *service.AuthService
	validator   *validator.Validator
}

func NewUserHandler(authService *service.AuthService, validator *validator.Validator) *UserHandler {
	return &UserHandler{
		authService: authService,
		validator:   validator,
	}
}

// Register handles user registration
// POST /api/user/register
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := parseAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// Info returns the current user's public identity fields
// GET /api/user/info
func (h *UserHandler) Info(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	if principal == nil {
		return domain.ErrNotAuthenticated
	}

	user, err := h.authService.UserInfo(c.Context(), principal)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(user)
}
