package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/benjamintzh/KNY/internal/domain"
)

// MemoryStore keeps sessions in process memory. A single mutex guards both
// maps so create/evict is one atomic step; every operation is O(1), so the
// critical sections stay short enough that finer per-principal locking buys
// nothing here.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	byPrincipal map[string]string // email -> active session id
	idleTimeout time.Duration
	now         func() time.Time
}

// NewMemoryStore creates an in-memory session store with the given idle
// timeout for the sliding expiry window.
func NewMemoryStore(idleTimeout time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]*Session),
		byPrincipal: make(map[string]string),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create issues a fresh session id and evicts any existing session for the
// principal before the new record becomes visible.
func (s *MemoryStore) Create(ctx context.Context, principal domain.Principal) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:             id,
		Email:          principal.Email,
		Name:           principal.Name,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(s.idleTimeout),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if oldID, ok := s.byPrincipal[principal.Email]; ok {
		delete(s.sessions, oldID)
		log.Printf("[SESSION] Evicted prior session for %s", principal.Email)
	}
	s.sessions[id] = sess
	s.byPrincipal[principal.Email] = id

	return copySession(sess), nil
}

// Lookup resolves a session id, removing it if the idle window has lapsed.
// A hit refreshes LastAccessedAt and slides ExpiresAt forward.
func (s *MemoryStore) Lookup(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	if now.After(sess.ExpiresAt) {
		s.removeLocked(sess)
		return nil, ErrNotFound
	}

	sess.LastAccessedAt = now
	sess.ExpiresAt = now.Add(s.idleTimeout)

	return copySession(sess), nil
}

// Invalidate removes the session. Unknown ids are a no-op.
func (s *MemoryStore) Invalidate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		s.removeLocked(sess)
	}
	return nil
}

// InvalidateAllFor removes every session bound to the principal.
func (s *MemoryStore) InvalidateAllFor(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byPrincipal[email]; ok {
		delete(s.sessions, id)
		delete(s.byPrincipal, email)
	}
	return nil
}

// StartSweeper launches a background goroutine that drops expired sessions to
// bound memory. Expiry is already enforced lazily at Lookup; the sweep only
// reclaims records nobody asks for again. The returned func stops it.
func (s *MemoryStore) StartSweeper(interval time.Duration) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func (s *MemoryStore) sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			s.removeLocked(sess)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[SESSION] Swept %d expired session(s)", removed)
	}
}

// removeLocked deletes the session and its principal index entry. The index
// is only cleared when it still points at this session, so an eviction that
// already replaced it is left alone.
func (s *MemoryStore) removeLocked(sess *Session) {
	delete(s.sessions, sess.ID)
	if current, ok := s.byPrincipal[sess.Email]; ok && current == sess.ID {
		delete(s.byPrincipal, sess.Email)
	}
}

func copySession(sess *Session) *Session {
	cp := *sess
	return &cp
}
