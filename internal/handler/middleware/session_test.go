package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/session"
)

func TestIsPublic(t *testing.T) {
	cases := []struct {
		path   string
		public bool
	}{
		{"/api/user/register", true},
		{"/api/user/login", true},
		{"/api/user/logout", true},
		{"/api/user/info", false},
		{"/api/forums", true},
		{"/api/forums/7", false},
		{"/api/community/feed", true},
		{"/api/comments/forum/7", true},
		{"/oauth2/authorization/google", true},
		{"/login/oauth2/code/google", true},
		{"/health", true},
		{"/ready", true},
		{"/api/admin", false},
		{"/", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.public, isPublic(tc.path), "path %s", tc.path)
	}
}

func newAuthorizerApp(t *testing.T) (*fiber.App, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(30 * time.Minute)

	app := fiber.New()
	app.Use(Authorizer(store, "KYNSESSION"))

	echo := func(c *fiber.Ctx) error {
		if p := Principal(c); p != nil {
			return c.JSON(fiber.Map{"email": p.Email})
		}
		return c.JSON(fiber.Map{"email": nil})
	}
	app.Get("/api/user/info", echo)
	app.Get("/api/forums", echo)

	return app, store
}

func TestAuthorizerBlocksAnonymousOnProtectedPath(t *testing.T) {
	app, _ := newAuthorizerApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/user/info", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizerLetsAnonymousThroughPublicPath(t *testing.T) {
	app, _ := newAuthorizerApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/forums", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthorizerResolvesPrincipalFromCookie(t *testing.T) {
	app, store := newAuthorizerApp(t)

	sess, err := store.Create(context.Background(), domain.Principal{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	req.AddCookie(&http.Cookie{Name: "KYNSESSION", Value: sess.ID})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthorizerTreatsStaleCookieAsAnonymous(t *testing.T) {
	app, _ := newAuthorizerApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/forums", nil)
	req.AddCookie(&http.Cookie{Name: "KYNSESSION", Value: "long-gone-session"})

	// A dead session falls through as anonymous on a public path.
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/user/info", nil)
	req.AddCookie(&http.Cookie{Name: "KYNSESSION", Value: "long-gone-session"})

	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
