package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authpkg "github.com/plantae/plantae-backend/internal/auth"
	"github.com/plantae/plantae-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockUserRepo struct {
	CreateFunc        func(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	created := *user
	created.ID = uuid.New()
	return &created, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrNotFound
}

type mockTokenManager struct {
	GenerateAccessTokenFunc func(userID uuid.UUID) (string, error)
	ValidateAccessTokenFunc func(token string) (uuid.UUID, error)
}

func (m *mockTokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID)
	}
	return "token-" + userID.String(), nil
}

func (m *mockTokenManager) ValidateAccessToken(token string) (uuid.UUID, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return uuid.Nil, errors.New("invalid token")
}

// ===========================================================================
// Helpers
// ===========================================================================

type testDeps struct {
	users  *mockUserRepo
	tokens *mockTokenManager
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		users:  &mockUserRepo{},
		tokens: &mockTokenManager{},
	}
	svc := NewService(slog.Default(), deps.users, deps.tokens)
	return svc, deps
}

// ===========================================================================
// Register
// ===========================================================================

func TestRegister_HappyPath(t *testing.T) {
	svc, deps := newTestService()

	var createdUser *domain.User
	deps.users.CreateFunc = func(_ context.Context, user *domain.User) (*domain.User, error) {
		created := *user
		created.ID = uuid.New()
		createdUser = &created
		return &created, nil
	}

	result, err := svc.Register(context.Background(), RegisterInput{
		Username: "  Gardener ",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "gardener", result.User.Username, "username is trimmed and lowercased")
	assert.NotEmpty(t, result.AccessToken)

	require.NotNil(t, createdUser)
	assert.NotEqual(t, "hunter2hunter2", createdUser.PasswordHash, "password must never be stored in the clear")
	assert.True(t, authpkg.CheckPassword(createdUser.PasswordHash, "hunter2hunter2"))
}

func TestRegister_ValidationErrors(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"short username", RegisterInput{Username: "ab", Password: "hunter2hunter2"}},
		{"short password", RegisterInput{Username: "gardener", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, deps := newTestService()

	deps.users.CreateFunc = func(_ context.Context, _ *domain.User) (*domain.User, error) {
		return nil, domain.ErrAlreadyExists
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "gardener",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

// ===========================================================================
// Login
// ===========================================================================

func TestLogin_HappyPath(t *testing.T) {
	svc, deps := newTestService()

	hash, err := authpkg.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	user := &domain.User{ID: uuid.New(), Username: "gardener", PasswordHash: hash}

	var requestedUsername string
	deps.users.GetByUsernameFunc = func(_ context.Context, username string) (*domain.User, error) {
		requestedUsername = username
		return user, nil
	}

	result, err := svc.Login(context.Background(), " Gardener ", "hunter2hunter2")
	require.NoError(t, err)

	assert.Equal(t, "gardener", requestedUsername, "lookup uses the normalized username")
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.AccessToken)
}

func TestLogin_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	svc, deps := newTestService()

	hash, err := authpkg.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	deps.users.GetByUsernameFunc = func(_ context.Context, username string) (*domain.User, error) {
		if username == "gardener" {
			return &domain.User{ID: uuid.New(), Username: username, PasswordHash: hash}, nil
		}
		return nil, domain.ErrNotFound
	}

	_, unknownErr := svc.Login(context.Background(), "nobody", "hunter2hunter2")
	_, wrongPwErr := svc.Login(context.Background(), "gardener", "not-the-password")

	assert.ErrorIs(t, unknownErr, domain.ErrUnauthorized)
	assert.ErrorIs(t, wrongPwErr, domain.ErrUnauthorized)
	assert.Equal(t, unknownErr, wrongPwErr, "both failures must be indistinguishable")
}

// ===========================================================================
// ValidateToken
// ===========================================================================

func TestValidateToken_HappyPath(t *testing.T) {
	svc, deps := newTestService()
	userID := uuid.New()

	deps.tokens.ValidateAccessTokenFunc = func(token string) (uuid.UUID, error) {
		require.Equal(t, "good-token", token)
		return userID, nil
	}

	got, err := svc.ValidateToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
