package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateManagerIssueAndVerify(t *testing.T) {
	manager := NewStateManager([]byte("test-secret"), 10*time.Minute)

	token, err := manager.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, manager.Verify(token))
}

func TestStateManagerRejectsTamperedToken(t *testing.T) {
	manager := NewStateManager([]byte("test-secret"), 10*time.Minute)

	token, err := manager.Issue()
	require.NoError(t, err)

	// Flip the first character, which sits inside the signature.
	flipped := byte('A')
	if token[0] == flipped {
		flipped = 'B'
	}
	tampered := string(flipped) + token[1:]
	assert.ErrorIs(t, manager.Verify(tampered), ErrInvalidState)
}

func TestStateManagerRejectsForeignKey(t *testing.T) {
	issuer := NewStateManager([]byte("key-one"), 10*time.Minute)
	verifier := NewStateManager([]byte("key-two"), 10*time.Minute)

	token, err := issuer.Issue()
	require.NoError(t, err)

	assert.ErrorIs(t, verifier.Verify(token), ErrInvalidState)
}

func TestStateManagerRejectsExpiredToken(t *testing.T) {
	manager := NewStateManager([]byte("test-secret"), 10*time.Minute)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return now }

	token, err := manager.Issue()
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	assert.ErrorIs(t, manager.Verify(token), ErrInvalidState)
}

func TestStateManagerRejectsGarbage(t *testing.T) {
	manager := NewStateManager([]byte("test-secret"), 10*time.Minute)

	assert.ErrorIs(t, manager.Verify(""), ErrInvalidState)
	assert.ErrorIs(t, manager.Verify("!!not-base64!!"), ErrInvalidState)
	assert.ErrorIs(t, manager.Verify("dG9vLXNob3J0"), ErrInvalidState)
}
