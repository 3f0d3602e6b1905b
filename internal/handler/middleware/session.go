package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/session"
)

const principalKey = "principal"

// route classifies a path prefix (or exact path) as public. Rules are checked
// in order; first match wins.
type route struct {
	path  string
	exact bool
}

// Public routes: forum listing, community feed, comment endpoints (the POST
// handler enforces the principal itself), register/login/logout, the external
// login entry points, and health checks. Everything else requires an
// authenticated principal.
var publicRoutes = []route{
	{path: "/api/user/register", exact: true},
	{path: "/api/user/login", exact: true},
	{path: "/api/user/logout", exact: true},
	{path: "/api/forums", exact: true},
	{path: "/api/community/feed", exact: true},
	{path: "/api/comments/forum/"},
	{path: "/oauth2/authorization/"},
	{path: "/login/oauth2/code/"},
	{path: "/health", exact: true},
	{path: "/ready", exact: true},
}

// Authorizer resolves the caller's principal from the session cookie once per
// request and gates non-public paths. An unknown or expired session resolves
// to anonymous, never to an error. The lookup's sliding-expiry touch is the
// only session mutation on this path.
func Authorizer(store session.Store, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionID := c.Cookies(cookieName); sessionID != "" {
			sess, err := store.Lookup(c.Context(), sessionID)
			switch {
			case err == nil:
				c.Locals(principalKey, sess.Principal())
				c.Locals(sessionIDKey, sess.ID)
			case errors.Is(err, session.ErrNotFound):
				// fall through as anonymous
			default:
				return err
			}
		}

		if isPublic(c.Path()) {
			return c.Next()
		}

		if Principal(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated",
			})
		}

		return c.Next()
	}
}

const sessionIDKey = "session_id"

func isPublic(path string) bool {
	for _, r := range publicRoutes {
		if r.exact {
			if path == r.path {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, r.path) {
			return true
		}
	}
	return false
}

// Principal returns the authenticated principal for the request, or nil for
// anonymous callers.
func Principal(c *fiber.Ctx) *domain.Principal {
	p, _ := c.Locals(principalKey).(*domain.Principal)
	return p
}

// SessionID returns the id of the session the request authenticated with, or
// the raw cookie value when the session did not resolve. Login uses it to
// discard the pre-authentication id; logout uses it to invalidate.
func SessionID(c *fiber.Ctx, cookieName string) string {
	if id, ok := c.Locals(sessionIDKey).(string); ok {
		return id
	}
	return c.Cookies(cookieName)
}
