package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/specialist-marketplace/internal/auth"
	"github.com/spec-kit/specialist-marketplace/internal/config"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

type userRepoMock struct {
	createFn     func(ctx context.Context, user *domain.User) error
	updateFn     func(ctx context.Context, user *domain.User) error
	deleteFn     func(ctx context.Context, id string) error
	getByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	listFn       func(ctx context.Context) ([]domain.User, error)
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *userRepoMock) Update(ctx context.Context, user *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *userRepoMock) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *userRepoMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *userRepoMock) List(ctx context.Context) ([]domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			AccessToken:   config.TokenConfig{Secret: "access-secret", TTL: 15 * time.Minute},
			RefreshToken:  config.TokenConfig{Secret: "refresh-secret", TTL: 30 * 24 * time.Hour},
			PasswordReset: config.TokenConfig{Secret: "reset-secret", TTL: 30 * time.Minute},
			BcryptCost:    4,
		},
	}
}

func newTestAuthService(users *userRepoMock) *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{UserRepo: users})
}

func storedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return &domain.User{
		ID:           "user-1",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleUser,
		Status:       domain.UserStatusActive,
	}
}

func TestRegisterCreatesUserWithDefaults(t *testing.T) {
	var created *domain.User
	users := &userRepoMock{
		createFn: func(_ context.Context, user *domain.User) error {
			user.ID = "new-id"
			created = user
			return nil
		},
	}
	svc := newTestAuthService(users)

	user, err := svc.Register(context.Background(), "New@Example.com", "secret", nil)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "new@example.com", created.Email)
	assert.Equal(t, domain.UserRoleUser, created.Role)
	assert.Equal(t, domain.UserStatusActive, created.Status)
	assert.NotEqual(t, "secret", created.PasswordHash)
	assert.Empty(t, user.PasswordHash)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := newTestAuthService(&userRepoMock{})

	_, err := svc.Register(context.Background(), "", "secret", nil)
	require.Error(t, err)
	assert.Equal(t, "Email and password are required", apperrors.ToDomainError(err).Message)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := &userRepoMock{
		getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "existing"}, nil
		},
	}
	svc := newTestAuthService(users)

	_, err := svc.Register(context.Background(), "taken@example.com", "secret", nil)
	require.Error(t, err)
	assert.Equal(t, "User already exists", apperrors.ToDomainError(err).Message)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	existing := storedUser(t, "user@example.com", "secret")
	users := &userRepoMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			assert.Equal(t, "user@example.com", email)
			copied := *existing
			return &copied, nil
		},
	}
	svc := newTestAuthService(users)

	user, pair, err := svc.Login(context.Background(), "User@Example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Empty(t, user.PasswordHash)

	claims, err := svc.TokenManager().Verify(pair.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, claims.UserID)
}

func TestLoginSameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	existing := storedUser(t, "user@example.com", "secret")

	unknown := newTestAuthService(&userRepoMock{})
	_, _, errUnknown := unknown.Login(context.Background(), "nobody@example.com", "secret")
	require.Error(t, errUnknown)

	wrongPassword := newTestAuthService(&userRepoMock{
		getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			copied := *existing
			return &copied, nil
		},
	})
	_, _, errWrong := wrongPassword.Login(context.Background(), "user@example.com", "bad")
	require.Error(t, errWrong)

	assert.Equal(t, apperrors.ToDomainError(errUnknown).Message, apperrors.ToDomainError(errWrong).Message)
	assert.Equal(t, "Invalid email or password", apperrors.ToDomainError(errWrong).Message)
}

func TestRefreshMintsAccessTokenWithCurrentRole(t *testing.T) {
	existing := storedUser(t, "user@example.com", "secret")
	users := &userRepoMock{
		getByIDFn: func(_ context.Context, id string) (*domain.User, error) {
			assert.Equal(t, existing.ID, id)
			promoted := *existing
			promoted.Role = domain.UserRoleAdmin
			return &promoted, nil
		},
	}
	svc := newTestAuthService(users)

	refresh, _, err := svc.TokenManager().Generate(auth.TokenKindRefresh, existing.ID, existing.Email, domain.UserRoleUser)
	require.NoError(t, err)

	accessToken, expiresAt, err := svc.RefreshAccessToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().Verify(accessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleAdmin, claims.Role)
}

func TestRefreshRejectsMissingToken(t *testing.T) {
	svc := newTestAuthService(&userRepoMock{})

	_, _, err := svc.RefreshAccessToken(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "Refresh token is required", apperrors.ToDomainError(err).Message)
}

func TestRefreshRejectsAccessTokenAsRefresh(t *testing.T) {
	svc := newTestAuthService(&userRepoMock{})

	access, _, err := svc.TokenManager().Generate(auth.TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	_, _, err = svc.RefreshAccessToken(context.Background(), access)
	require.Error(t, err)
	assert.Equal(t, "Invalid refresh token", apperrors.ToDomainError(err).Message)
}

func TestRefreshRejectsDeletedAccount(t *testing.T) {
	svc := newTestAuthService(&userRepoMock{})

	refresh, _, err := svc.TokenManager().Generate(auth.TokenKindRefresh, "gone", "gone@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	_, _, err = svc.RefreshAccessToken(context.Background(), refresh)
	require.Error(t, err)
	assert.Equal(t, "User account not found", apperrors.ToDomainError(err).Message)
}

func TestRefreshRejectsEmailMismatch(t *testing.T) {
	existing := storedUser(t, "changed@example.com", "secret")
	users := &userRepoMock{
		getByIDFn: func(_ context.Context, _ string) (*domain.User, error) {
			copied := *existing
			return &copied, nil
		},
	}
	svc := newTestAuthService(users)

	refresh, _, err := svc.TokenManager().Generate(auth.TokenKindRefresh, existing.ID, "old@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	_, _, err = svc.RefreshAccessToken(context.Background(), refresh)
	require.Error(t, err)
	assert.Equal(t, "User account not found", apperrors.ToDomainError(err).Message)
}

func TestForgetPasswordUnknownEmail(t *testing.T) {
	svc := newTestAuthService(&userRepoMock{})

	_, err := svc.ForgetPassword(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, "User not found", apperrors.ToDomainError(err).Message)
}

func TestResetPasswordUpdatesHash(t *testing.T) {
	existing := storedUser(t, "user@example.com", "old-secret")
	var updated *domain.User
	users := &userRepoMock{
		getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			copied := *existing
			return &copied, nil
		},
		updateFn: func(_ context.Context, user *domain.User) error {
			updated = user
			return nil
		},
	}
	svc := newTestAuthService(users)

	token, _, err := svc.TokenManager().Generate(auth.TokenKindPasswordReset, existing.ID, existing.Email, existing.Role)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-secret"))
	require.NotNil(t, updated)
	assert.NoError(t, auth.ComparePassword(updated.PasswordHash, "new-secret"))
}

func TestResetPasswordRejectsWrongKind(t *testing.T) {
	svc := newTestAuthService(&userRepoMock{})

	access, _, err := svc.TokenManager().Generate(auth.TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), access, "new-secret")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired reset token", apperrors.ToDomainError(err).Message)
}
