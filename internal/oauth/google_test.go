package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleResolverAuthCodeURL(t *testing.T) {
	resolver := NewGoogleResolver(GoogleConfig{
		ClientID:    "client-id",
		CallbackURL: "https://example.com/login/oauth2/code/google",
	})

	authURL := resolver.AuthCodeURL("state-token")

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "https://example.com/login/oauth2/code/google", query.Get("redirect_uri"))
	assert.Equal(t, "state-token", query.Get("state"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "select_account consent", query.Get("prompt"))

	scope := query.Get("scope")
	assert.Contains(t, scope, "openid")
	assert.Contains(t, scope, "email")
	assert.Contains(t, scope, "profile")
}

func TestGoogleResolverResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			values, err := url.ParseQuery(string(body))
			assert.NoError(t, err)

			assert.Equal(t, "client-id", values.Get("client_id"))
			assert.Equal(t, "client-secret", values.Get("client_secret"))
			assert.Equal(t, "auth-code", values.Get("code"))
			assert.Equal(t, "authorization_code", values.Get("grant_type"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "access-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})

		case "/userinfo":
			assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"sub":            "google-sub-123",
				"email":          "test@example.com",
				"email_verified": true,
				"name":           "Test User",
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	resolver := NewGoogleResolver(GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		CallbackURL:  "https://example.com/login/oauth2/code/google",
		TokenURL:     server.URL + "/token",
		UserInfoURL:  server.URL + "/userinfo",
	})

	identity, err := resolver.Resolve(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "google-sub-123", identity.Subject)
	assert.Equal(t, "test@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Test User", identity.Name)
}

func TestGoogleResolverResolveFallsBackToGivenFamilyName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access-token"})
		case "/userinfo":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"sub":         "sub",
				"email":       "test@example.com",
				"given_name":  "Test",
				"family_name": "User",
			})
		}
	}))
	defer server.Close()

	resolver := NewGoogleResolver(GoogleConfig{
		TokenURL:    server.URL + "/token",
		UserInfoURL: server.URL + "/userinfo",
	})

	identity, err := resolver.Resolve(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "Test User", identity.Name)
}

func TestGoogleResolverExchangeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	resolver := NewGoogleResolver(GoogleConfig{
		TokenURL:    server.URL + "/token",
		UserInfoURL: server.URL + "/userinfo",
	})

	_, err := resolver.Resolve(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func TestGoogleResolverProfileFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access-token"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	resolver := NewGoogleResolver(GoogleConfig{
		TokenURL:    server.URL + "/token",
		UserInfoURL: server.URL + "/userinfo",
	})

	_, err := resolver.Resolve(context.Background(), "auth-code")
	assert.ErrorIs(t, err, ErrProfileFetchFailed)
}
