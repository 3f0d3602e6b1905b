package service

import (
	"context"
	"log"
	"time"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/oauth"
	"github.com/benjamintzh/KNY/internal/repository"
	"github.com/benjamintzh/KNY/internal/session"
	"github.com/benjamintzh/KNY/pkg/hash"
)

// AuthService orchestrates registration, both login paths, and logout. Every
// successful login funnels through establishSession, which is where the
// fixation migration and the single-session eviction happen.
type AuthService struct {
	users    repository.UserRepository
	sessions session.Store
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO carries the public identity fields returned to clients.
type UserDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewAuthService(users repository.UserRepository, sessions session.Store) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// Register creates a password-backed identity record.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUser
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &passwordHash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[AUTH_SERVICE] Registered user: %s", user.Email)
	return toUserDTO(user), nil
}

// Login verifies email/password credentials and establishes a session.
// priorSessionID is whatever session id the client presented before
// authenticating; it is discarded so a pre-set id never survives login.
// Failures never reveal whether the email is registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, priorSessionID string) (*UserDTO, *session.Session, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	valid, err := hash.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, nil, err
	}
	if !valid {
		log.Printf("[AUTH_SERVICE] Login failed for %s", req.Email)
		return nil, nil, domain.ErrInvalidCredentials
	}

	sess, err := s.establishSession(ctx, user, priorSessionID)
	if err != nil {
		return nil, nil, err
	}

	return toUserDTO(user), sess, nil
}

// LoginExternal establishes a session from a verified external identity,
// creating the identity record on first sight and refreshing the display
// name on later logins. The password hash is never touched.
func (s *AuthService) LoginExternal(ctx context.Context, identity *oauth.Identity, priorSessionID string) (*UserDTO, *session.Session, error) {
	if identity.Email == "" {
		return nil, nil, domain.ErrMissingEmailClaim
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		user = &domain.User{
			Email:     identity.Email,
			Name:      identity.Name,
			CreatedAt: time.Now(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, err
		}
		log.Printf("[AUTH_SERVICE] Created identity for external user: %s", user.Email)
	} else if identity.Name != "" && identity.Name != user.Name {
		if err := s.users.UpdateName(ctx, user.Email, identity.Name); err != nil {
			return nil, nil, err
		}
		user.Name = identity.Name
	}

	sess, err := s.establishSession(ctx, user, priorSessionID)
	if err != nil {
		return nil, nil, err
	}

	return toUserDTO(user), sess, nil
}

// Logout invalidates the presented session. A missing id is a no-op success.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Invalidate(ctx, sessionID)
}

// UserInfo returns the public identity fields for the principal, lazily
// materializing a record for a first-seen external identity.
func (s *AuthService) UserInfo(ctx context.Context, principal *domain.Principal) (*UserDTO, error) {
	user, err := s.users.GetByEmail(ctx, principal.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &domain.User{
			Email:     principal.Email,
			Name:      principal.Name,
			CreatedAt: time.Now(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("[AUTH_SERVICE] Materialized identity for %s", user.Email)
	}

	return toUserDTO(user), nil
}

// establishSession drops the pre-authentication session id, if any, and asks
// the store for a fresh one. Store.Create evicts the principal's prior
// session, so the evicted client simply fails its next lookup.
func (s *AuthService) establishSession(ctx context.Context, user *domain.User, priorSessionID string) (*session.Session, error) {
	if priorSessionID != "" {
		if err := s.sessions.Invalidate(ctx, priorSessionID); err != nil {
			return nil, err
		}
	}

	sess, err := s.sessions.Create(ctx, domain.Principal{Email: user.Email, Name: user.Name})
	if err != nil {
		return nil, err
	}

	log.Printf("[AUTH_SERVICE] Session established for %s", user.Email)
	return sess, nil
}

func toUserDTO(user *domain.User) *UserDTO {
	return &UserDTO{
		Email: user.Email,
		Name:  user.Name,
	}
}
