// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Two services live here:
//   - UserService: the user entity's rules (validation, email normalization,
//     id checks) and its create / get / find / delete operations
//   - AuthService: credential verification and access-token issuance on top
//     of UserService
//
// DEPENDENCY INJECTION:
// UserService takes a repository.UserRepository (interface), NOT a *sqlite.DB.
// In tests we pass an in-memory fake (see fake_repo_test.go).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/auth"
	"github.com/sakif/account-service/internal/model"
	"github.com/sakif/account-service/internal/repository"
)

// CreateUserInput carries the fields accepted at sign-up.
//
// The `validate` tags are the entity's field rules. They run AFTER
// normalization (see normalize), so " Al " fails the min=3 rule.
type CreateUserInput struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Avatar   string `json:"avatar"`
}

// normalize trims name and avatar and normalizes the email.
// The password is left exactly as typed.
func (in CreateUserInput) normalize() CreateUserInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	in.Avatar = strings.TrimSpace(in.Avatar)
	return in
}

// NormalizeEmail trims surrounding whitespace and lowercases an address.
//
// Every path that stores OR looks up an email goes through this, which is
// what makes "Ada@Example.com " and "ada@example.com" the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserService handles business logic for user accounts.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// Create validates and stores a new user and returns the internal entity
// (including the password hash — callers must project with Public()).
//
// ORDER OF OPERATIONS:
//  1. Normalize, then validate every field (no store access on bad input)
//  2. Reject if the email is already taken
//  3. Hash the password (the slow step — skipped for duplicates)
//  4. Insert; the store's UNIQUE index catches a concurrent duplicate that
//     slipped past step 2, and reports it as ErrConflict too
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	in = in.normalize()

	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at most %d bytes long", auth.MaxPasswordBytes))
	}

	existing, err := s.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("user", "email")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Avatar:       in.Avatar,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.logger.Info("duplicate sign-up rejected by store constraint")
			return nil, err
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", slog.String("id", user.ID))

	return user, nil
}

// GetByID returns the user with the given id.
//
// The id is checked for xid structure first: a malformed id fails with
// apperror.ErrInvalidID and never reaches the repository.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}

	return user, nil
}

// FindByEmail returns the user with the given email, or (nil, nil) if there
// is none. Absence is not an error here; the caller decides what it means.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}

	return user, nil
}

// Delete permanently removes a user.
//
// Same id check as GetByID. The repository reports a missing row as
// apperror.ErrNotFound from the DELETE itself, so existence check and
// removal are one statement and can't race each other.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to delete user",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
		}
		return fmt.Errorf("deleting user %s: %w", id, err)
	}

	s.logger.Info("user deleted", slog.String("id", id))

	return nil
}

// checkID rejects ids that are not structurally valid xids.
func checkID(id string) error {
	if _, err := xid.FromString(id); err != nil {
		return apperror.InvalidID("user", id)
	}
	return nil
}
