package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamintzh/KNY/internal/domain"
)

var alice = domain.Principal{Email: "alice@example.com", Name: "Alice"}

func TestMemoryStoreCreateAndLookup(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	sess, err := store.Create(ctx, alice)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice@example.com", sess.Email)
	assert.Equal(t, "Alice", sess.Name)

	got, err := store.Lookup(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Principal().Email)
}

func TestMemoryStoreLookupUnknownID(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)

	_, err := store.Lookup(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCreateEvictsPriorSession(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	first, err := store.Create(ctx, alice)
	require.NoError(t, err)

	second, err := store.Create(ctx, alice)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "session ids must never be reused")

	_, err = store.Lookup(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound, "evicted session must be unresolvable")

	_, err = store.Lookup(ctx, second.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreInvalidateIsIdempotent(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	sess, err := store.Create(ctx, alice)
	require.NoError(t, err)

	require.NoError(t, store.Invalidate(ctx, sess.ID))
	require.NoError(t, store.Invalidate(ctx, sess.ID))
	require.NoError(t, store.Invalidate(ctx, "never-existed"))

	_, err = store.Lookup(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreInvalidateAllFor(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	sess, err := store.Create(ctx, alice)
	require.NoError(t, err)

	other, err := store.Create(ctx, domain.Principal{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	require.NoError(t, store.InvalidateAllFor(ctx, "alice@example.com"))

	_, err = store.Lookup(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Lookup(ctx, other.ID)
	assert.NoError(t, err, "unrelated principal's session must survive")
}

func TestMemoryStoreSlidingExpiry(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess, err := store.Create(ctx, alice)
	require.NoError(t, err)

	// 20 minutes later the session is still live and the window slides.
	now = now.Add(20 * time.Minute)
	got, err := store.Lookup(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), got.ExpiresAt)

	// Another 20 minutes is inside the refreshed window.
	now = now.Add(20 * time.Minute)
	_, err = store.Lookup(ctx, sess.ID)
	require.NoError(t, err)

	// 31 idle minutes exceeds the window; the session lapses.
	now = now.Add(31 * time.Minute)
	_, err = store.Lookup(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Expired sessions stay gone even if time rolls on.
	_, err = store.Lookup(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSweepRemovesExpired(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	expired, err := store.Create(ctx, alice)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	live, err := store.Create(ctx, domain.Principal{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	store.sweep()

	store.mu.Lock()
	_, expiredPresent := store.sessions[expired.ID]
	_, livePresent := store.sessions[live.ID]
	store.mu.Unlock()

	assert.False(t, expiredPresent)
	assert.True(t, livePresent)
}

func TestMemoryStoreConcurrentCreatesLeaveOneSession(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	ctx := context.Background()

	const logins = 32
	ids := make([]string, logins)

	var wg sync.WaitGroup
	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := store.Create(ctx, alice)
			if !assert.NoError(t, err) {
				return
			}
			ids[i] = sess.ID
		}(i)
	}
	wg.Wait()

	survivors := 0
	for _, id := range ids {
		if _, err := store.Lookup(ctx, id); err == nil {
			survivors++
		}
	}
	assert.Equal(t, 1, survivors, "exactly one concurrent login must win")

	store.mu.Lock()
	assert.Len(t, store.sessions, 1)
	assert.Len(t, store.byPrincipal, 1)
	store.mu.Unlock()
}
