package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/captainsdeck/backend/internal/auth"
	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/repo"
)

// AuthService implements the identity flows: anonymous guest sessions,
// captain email/password login, and first-boot captain provisioning.
//
// Login failures are split into two distinguishable cases: no captain
// account is provisioned at all (domain.ErrAuthDisabled, an operator
// problem) versus a wrong email or password (domain.ErrBadCredentials, kept
// deliberately vague). Neither affects an existing guest session.
type AuthService struct {
	captains repo.CaptainRepo
	tokens   *auth.Tokens
}

// NewAuthService constructs an AuthService.
func NewAuthService(captains repo.CaptainRepo, tokens *auth.Tokens) *AuthService {
	return &AuthService{captains: captains, tokens: tokens}
}

// GuestSession issues a fresh anonymous read-only session token. Called on
// first load and again after logout, so read access never drops to "no
// identity at all".
func (s *AuthService) GuestSession() (string, error) {
	token, err := s.tokens.Issue("guest-"+uuid.NewString(), domain.RoleGuest)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.GuestSession: %w", err)
	}
	return token, nil
}

// Login verifies a captain's email and password and issues a captain session
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrBadCredentials)
	}

	captain, err := s.captains.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			n, countErr := s.captains.Count(ctx)
			if countErr == nil && n == 0 {
				return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrAuthDisabled)
			}
			return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrBadCredentials)
		}
		return "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(captain.PasswordHash), []byte(password)) != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrBadCredentials)
	}

	token, err := s.tokens.Issue(captain.ID.String(), domain.RoleCaptain)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return token, nil
}

// EnsureCaptain provisions a captain account with the given credentials when
// none exists yet. Called at startup with operator-supplied seed values; a
// no-op when the email is empty or the account table is already populated.
func (s *AuthService) EnsureCaptain(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	n, err := s.captains.Count(ctx)
	if err != nil {
		return fmt.Errorf("service.AuthService.EnsureCaptain: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service.AuthService.EnsureCaptain: %w", err)
	}
	if _, err := s.captains.Create(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("service.AuthService.EnsureCaptain: %w", err)
	}
	return nil
}
