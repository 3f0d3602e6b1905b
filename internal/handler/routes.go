package handler

import (
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	oauthHandler *OAuthHandler,
	forumHandler *ForumHandler,
	commentHandler *CommentHandler,
	healthHandler *HealthHandler,
) {
	// Health checks
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// Auth + account
	user := app.Group("/api/user")
	user.Post("/register", userHandler.Register)
	user.Post("/login", authHandler.Login)
	user.Post("/logout", authHandler.Logout)
	user.Get("/info", userHandler.Info)

	// External identity provider
	app.Get("/oauth2/authorization/google", oauthHandler.Authorize)
	app.Get("/login/oauth2/code/google", oauthHandler.Callback)

	// Forums
	app.Get("/api/forums", forumHandler.List)
	app.Get("/api/forums/:id", forumHandler.Get)
	app.Post("/api/forums", forumHandler.Create)
	app.Get("/api/community/feed", forumHandler.Feed)

	// Comments
	app.Get("/api/comments/forum/:forumId", commentHandler.List)
	app.Post("/api/comments/forum/:forumId", commentHandler.Create)
}
