// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the user/auth primitives:
//
//	UserHandler (HTTP) → AuthService → UserService → UserRepository (DB)
//	                               ↘ PasswordService (bcrypt)
//	                               ↘ TokenService (JWT)
//
// KEY RESPONSIBILITIES:
//   - Verify email + password without revealing which one was wrong
//   - Issue a signed access token for a user id
//   - Bundle "create account" and "log in" with token issuance
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
)

// AuthService handles the authentication business logic.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      *UserService           → user lookup and creation rules
//   - tokens     *auth.TokenService     → generate/validate JWTs
//   - passwords  *auth.PasswordService  → bcrypt verification
//   - logger     *slog.Logger           → structured logging
type AuthService struct {
	users     *UserService
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users *UserService,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is returned by Register and Login.
// It bundles the user record and the issued JWT together so the handler can
// respond in one step. User is the internal form; handlers send User.Public().
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates an account and issues its first access token.
func (s *AuthService) Register(ctx context.Context, in CreateUserInput) (*AuthResult, error) {
	user, err := s.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// Authenticate returns the user whose email and password match.
//
// ACCOUNT ENUMERATION:
// Unknown email, wrong password and an unreadable stored hash all return the
// same apperror.Unauthenticated() value. When the email is unknown we still
// run a bcrypt comparison (VerifyDummy) so the response time doesn't give
// the difference away either.
//
// Only a storage failure (the database being down) surfaces as a different
// error, because that is not a statement about the credentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	if user == nil {
		s.passwords.VerifyDummy(password)
		return nil, apperror.Unauthenticated()
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("stored password hash is unusable",
				slog.String("userID", user.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.Unauthenticated()
	}

	return user, nil
}

// IssueAccessToken returns a signed token whose subject is userID, valid for
// auth.AccessTokenTTL from now.
func (s *AuthService) IssueAccessToken(userID string) (string, error) {
	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("issuing token for user %s: %w", userID, err)
	}
	return token, nil
}

// ValidateToken validates a JWT string and returns the userID it encodes.
//
// This is a thin delegation to TokenService.Validate, so callers only need
// the service package.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	claims, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return claims.Subject, nil
}

// CurrentUser loads the user named by an authenticated request's subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}
