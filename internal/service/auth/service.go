// Package auth implements registration, login, and token validation for the
// username/password flow.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/plantae/plantae-backend/internal/auth"
	"github.com/plantae/plantae-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type userRepo interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type tokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements authentication business logic.
type Service struct {
	users  userRepo
	tokens tokenManager
	log    *slog.Logger
}

// NewService creates the auth service.
func NewService(log *slog.Logger, users userRepo, tokens tokenManager) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		log:    log.With("service", "auth"),
	}
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username string
	Password string
}

// Validate checks and normalizes the input.
func (in *RegisterInput) Validate() error {
	var errs []domain.FieldError

	in.Username = strings.TrimSpace(strings.ToLower(in.Username))
	if len(in.Username) < 3 {
		errs = append(errs, domain.FieldError{Field: "username", Message: "must be at least 3 characters"})
	} else if len(in.Username) > 64 {
		errs = append(errs, domain.FieldError{Field: "username", Message: "too long"})
	}

	if len(in.Password) < 8 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Result is a successful authentication: the user plus an access token.
type Result struct {
	User        *domain.User
	AccessToken string
}

// Register creates a new account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueFor(user)
}

// Login verifies credentials and returns a signed token.
//
// Unknown usernames and wrong passwords both come back as ErrUnauthorized so
// the response does not leak which part failed.
func (s *Service) Login(ctx context.Context, username, password string) (*Result, error) {
	username = strings.TrimSpace(strings.ToLower(username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrUnauthorized
	}

	return s.issueFor(user)
}

// ValidateToken checks an access token and returns the user ID it carries.
func (s *Service) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	userID, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

func (s *Service) issueFor(user *domain.User) (*Result, error) {
	token, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Result{User: user, AccessToken: token}, nil
}
