package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidState marks a state token that is malformed, forged, or expired.
var ErrInvalidState = errors.New("invalid oauth state")

// StateManager issues and verifies the state parameter round-tripped through
// the provider, tying a callback to a login this server started. Tokens are
// HMAC-signed so they stay valid across server instances without shared
// storage.
type StateManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type statePayload struct {
	Nonce     string `json:"n"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func NewStateManager(key []byte, ttl time.Duration) *StateManager {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &StateManager{
		key: key,
		ttl: ttl,
		now: time.Now,
	}
}

// Issue creates a signed, short-lived state token.
func (m *StateManager) Issue() (string, error) {
	now := m.now()
	payload := statePayload{
		Nonce:     uuid.NewString(),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.ttl).Unix(),
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, m.key)
	mac.Write(plaintext)
	signature := mac.Sum(nil)

	token := append(signature, plaintext...)
	return base64.RawURLEncoding.EncodeToString(token), nil
}

// Verify checks the signature and expiry of a state token.
func (m *StateManager) Verify(token string) error {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return ErrInvalidState
	}
	if len(data) < sha256.Size {
		return ErrInvalidState
	}

	signature := data[:sha256.Size]
	plaintext := data[sha256.Size:]

	mac := hmac.New(sha256.New, m.key)
	mac.Write(plaintext)
	if !hmac.Equal(signature, mac.Sum(nil)) {
		return ErrInvalidState
	}

	var payload statePayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return ErrInvalidState
	}
	if m.now().Unix() > payload.ExpiresAt {
		return ErrInvalidState
	}

	return nil
}
