package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"surveybot/internal/domain"
	"surveybot/internal/domain/entities"
	"surveybot/internal/ports/input"
	"surveybot/internal/ports/output"
)

var _ input.AuthUseCase = (*AuthService)(nil)

// AuthService manages login sessions of chat identities. It is the only
// writer of the auth session table.
type AuthService struct {
	users    output.UserRepository
	sessions output.AuthSessionRepository
	verifier output.CredentialVerifier
	locks    *IdentityLocks
}

func NewAuthService(
	users output.UserRepository,
	sessions output.AuthSessionRepository,
	verifier output.CredentialVerifier,
	locks *IdentityLocks,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		verifier: verifier,
		locks:    locks,
	}
}

// Authenticate checks username/password. Unknown, inactive and password-less
// users all fail with domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, storageErr(err)
	}
	if !u.IsActive || u.PasswordHash == "" || !s.verifier.Verify(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and makes the user the only active session of identity.
func (s *AuthService) Login(ctx context.Context, identity, username, password string) (*entities.User, error) {
	unlock := s.locks.Lock(identity)
	defer unlock()

	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if _, err := s.activate(ctx, identity, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) SetActiveSession(ctx context.Context, identity string, userID uint) (*entities.AuthSession, error) {
	unlock := s.locks.Lock(identity)
	defer unlock()
	return s.activate(ctx, identity, userID)
}

func (s *AuthService) activate(ctx context.Context, identity string, userID uint) (*entities.AuthSession, error) {
	sess, err := s.sessions.Activate(ctx, identity, userID)
	if err != nil {
		return nil, storageErr(fmt.Errorf("activate session: %w", err))
	}
	return sess, nil
}

// ActiveSession returns the most recent active session of identity, or nil.
// A session whose user was deactivated counts as no session.
func (s *AuthService) ActiveSession(ctx context.Context, identity string) (*entities.AuthSession, error) {
	sess, err := s.sessions.FindActive(ctx, identity)
	if err != nil {
		return nil, storageErr(fmt.Errorf("find active session: %w", err))
	}
	if sess == nil || sess.User == nil || !sess.User.IsActive {
		return nil, nil
	}
	return sess, nil
}

// GetActiveUser returns the logged in user of identity, or nil.
func (s *AuthService) GetActiveUser(ctx context.Context, identity string) (*entities.User, error) {
	sess, err := s.ActiveSession(ctx, identity)
	if err != nil || sess == nil {
		return nil, err
	}
	return sess.User, nil
}

func (s *AuthService) Logout(ctx context.Context, identity string) error {
	unlock := s.locks.Lock(identity)
	defer unlock()
	if err := s.sessions.DeactivateAll(ctx, identity); err != nil {
		return storageErr(fmt.Errorf("deactivate sessions: %w", err))
	}
	return nil
}
