// Package oauth completes the authorization-code handshake with an external
// identity provider and hands back verified identity claims. The provider is
// trusted to have authenticated the user; this package never sees passwords.
package oauth

import (
	"context"
	"errors"
)

var (
	// ErrExchangeFailed covers any failure of the code-for-token exchange.
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	// ErrProfileFetchFailed covers failures fetching the userinfo document.
	ErrProfileFetchFailed = errors.New("failed to fetch user profile")
)

// Identity is the verified claim set returned by a provider.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// Resolver turns an authorization code from the provider callback into a
// verified external identity.
type Resolver interface {
	// AuthCodeURL builds the provider consent URL carrying the state token.
	AuthCodeURL(state string) string
	// Resolve exchanges the code and fetches the identity claims.
	Resolve(ctx context.Context, code string) (*Identity, error)
}
