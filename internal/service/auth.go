package service

import (
	"context"
	"fmt"
	"strings"

	"wordflow/internal/domain"
	"wordflow/internal/repository"

	"go.uber.org/zap"
)

// AuthService links Telegram users to backend sessions
type AuthService struct {
	userRepo repository.UserRepository
	backends repository.BackendProvider
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, backends repository.BackendProvider, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		backends: backends,
		logger:   logger,
	}
}

// NormalizeEmail trims and lowercases an email the way the backend does
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login signs in to the backend and stores the session cookie
func (s *AuthService) Login(ctx context.Context, userID int64, email, password string) (*domain.Account, error) {
	backend := s.backends.Backend("")
	account, err := backend.Login(ctx, NormalizeEmail(email), password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveSession(userID, account.Email, backend.Cookie()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return account, nil
}

// Register creates a backend account, which also signs the user in
func (s *AuthService) Register(ctx context.Context, userID int64, email, password string) (*domain.Account, error) {
	backend := s.backends.Backend("")
	account, err := backend.Register(ctx, NormalizeEmail(email), password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveSession(userID, account.Email, backend.Cookie()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return account, nil
}

// Logout ends the backend session and forgets the cookie. The local session
// is cleared even when the backend call fails.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	backend, err := s.Backend(userID)
	if err == nil {
		if err := backend.Logout(ctx); err != nil {
			s.logger.Warn("Backend logout failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return s.userRepo.ClearSession(userID)
}

// Expire forgets a session the backend no longer accepts
func (s *AuthService) Expire(userID int64) error {
	s.logger.Info("Session expired", zap.Int64("user_id", userID))
	return s.userRepo.ClearSession(userID)
}

// Backend opens the stored backend session of a user
func (s *AuthService) Backend(userID int64) (repository.Backend, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Authorized || user.SessionCookie == "" {
		return nil, repository.ErrUnauthorized
	}
	return s.backends.Backend(user.SessionCookie), nil
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(userID)
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(userID int64) error {
	return s.userRepo.EnsureUserExists(userID)
}
