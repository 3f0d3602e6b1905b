package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/handler/middleware"
	"github.com/benjamintzh/KNY/internal/service"
	"github.com/benjamintzh/KNY/pkg/validator"
)

type CommentHandler struct {
	commentService *service.CommentService
	validator      *validator.Validator
}

func NewCommentHandler(commentService *service.CommentService, validator *validator.Validator) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validator:      validator,
	}
}

// List returns a forum's comments with author display names
// GET /api/comments/forum/:forumId
func (h *CommentHandler) List(c *fiber.Ctx) error {
	forumID, err := c.ParamsInt("forumId")
	if err != nil {
		return domain.NewValidation("forumId must be a number")
	}

	comments, err := h.commentService.ListByForum(c.Context(), int64(forumID))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

// Create posts a comment to a forum as the authenticated principal
// POST /api/comments/forum/:forumId
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	forumID, err := c.ParamsInt("forumId")
	if err != nil {
		return domain.NewValidation("forumId must be a number")
	}

	var req service.CreateCommentRequest
	if err := parseAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Context(), middleware.Principal(c), int64(forumID), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(comment)
}
