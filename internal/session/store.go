package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/benjamintzh/KNY/internal/domain"
)

// ErrNotFound is returned by Lookup for unknown, invalidated, or expired
// session ids. Callers resolve it to the anonymous principal.
var ErrNotFound = errors.New("session not found")

// Session binds a principal to an opaque, time-bounded token presented by the
// client. Records are owned exclusively by the Store that created them.
type Session struct {
	ID             string
	Email          string
	Name           string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpiresAt      time.Time
}

// Principal returns the identity the session is bound to.
func (s *Session) Principal() *domain.Principal {
	return &domain.Principal{Email: s.Email, Name: s.Name}
}

// Store is the process-wide session registry.
//
// Invariant: at most one live session per principal. Create evicts any
// existing session for the same principal before the new one becomes visible
// to Lookup, and it always mints a fresh id, which is what makes a login
// immune to session fixation. Concurrent Creates for the same principal are
// serialized; exactly one survives.
type Store interface {
	// Create issues a new session for the principal, evicting any prior one.
	Create(ctx context.Context, principal domain.Principal) (*Session, error)
	// Lookup resolves an id, failing closed on unknown or expired sessions.
	// A hit slides the expiry window forward from the access time.
	Lookup(ctx context.Context, id string) (*Session, error)
	// Invalidate removes a session. Unknown ids are a no-op.
	Invalidate(ctx context.Context, id string) error
	// InvalidateAllFor removes every session bound to the principal.
	InvalidateAllFor(ctx context.Context, email string) error
}

const idLength = 32 // bytes of entropy per session id

// newSessionID generates a cryptographically unguessable session id.
func newSessionID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
