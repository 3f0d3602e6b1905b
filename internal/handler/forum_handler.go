package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/handler/middleware"
	"github.com/benjamintzh/KNY/internal/service"
	"github.com/benjamintzh/KNY/pkg/validator"
)

type ForumHandler struct {
	forumService *service.ForumService
	validator    *validator.Validator
}

func NewForumHandler(forumService *service.ForumService, validator *validator.Validator) *ForumHandler {
	return &ForumHandler{
		forumService: forumService,
		validator:    validator,
	}
}

// List returns all forums
// GET /api/forums
func (h *ForumHandler) List(c *fiber.Ctx) error {
	forums, err := h.forumService.List(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(forums)
}

// Get returns a single forum
// GET /api/forums/:id
func (h *ForumHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return domain.NewValidation("id must be a number")
	}

	forum, err := h.forumService.Get(c.Context(), int64(id))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(forum)
}

// Create creates a forum owned by the authenticated principal
// POST /api/forums
func (h *ForumHandler) Create(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	if principal == nil {
		return domain.ErrNotAuthenticated
	}

	var req service.CreateForumRequest
	if err := parseAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	forum, err := h.forumService.Create(c.Context(), principal, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(forum)
}

// Feed returns the most recent forums
// GET /api/community/feed
func (h *ForumHandler) Feed(c *fiber.Ctx) error {
	forums, err := h.forumService.Feed(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(forums)
}
