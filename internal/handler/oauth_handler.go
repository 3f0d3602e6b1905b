package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/handler/middleware"
	"github.com/benjamintzh/KNY/internal/oauth"
	"github.com/benjamintzh/KNY/internal/service"
)

// OAuthHandler owns the external-identity login flow: the entry point that
// sends the browser to the provider, and the callback that turns the
// provider's code into a session. Failures answer with structured JSON, never
// an HTML error page; only the happy path redirects.
type OAuthHandler struct {
	authService *service.AuthService
	resolver    oauth.Resolver
	state       *oauth.StateManager
	cookie      SessionCookie
	// successURL is the front-end destination after a completed login.
	successURL string
}

func NewOAuthHandler(
	authService *service.AuthService,
	resolver oauth.Resolver,
	state *oauth.StateManager,
	cookie SessionCookie,
	successURL string,
) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		resolver:    resolver,
		state:       state,
		cookie:      cookie,
		successURL:  successURL,
	}
}

// Authorize starts the provider handshake
// GET /oauth2/authorization/google
func (h *OAuthHandler) Authorize(c *fiber.Ctx) error {
	state, err := h.state.Issue()
	if err != nil {
		return err
	}
	return c.Redirect(h.resolver.AuthCodeURL(state), fiber.StatusFound)
}

// Callback completes the provider handshake and establishes a session
// GET /login/oauth2/code/google
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return fmt.Errorf("%w: provider returned %q", oauth.ErrExchangeFailed, errParam)
	}

	if err := h.state.Verify(c.Query("state")); err != nil {
		return err
	}

	code := c.Query("code")
	if code == "" {
		return oauth.ErrExchangeFailed
	}

	identity, err := h.resolver.Resolve(c.Context(), code)
	if err != nil {
		return err
	}

	priorSessionID := middleware.SessionID(c, h.cookie.Name)
	_, sess, err := h.authService.LoginExternal(c.Context(), identity, priorSessionID)
	if err != nil {
		return err
	}

	h.cookie.set(c, sess)
	return c.Redirect(h.successURL, fiber.StatusFound)
}
