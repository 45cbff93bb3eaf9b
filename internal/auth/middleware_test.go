package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/specialist-marketplace/internal/domain"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

type userLookupMock struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *userLookupMock) Create(ctx context.Context, user *domain.User) error { return nil }
func (m *userLookupMock) Update(ctx context.Context, user *domain.User) error { return nil }
func (m *userLookupMock) Delete(ctx context.Context, id string) error         { return nil }

func (m *userLookupMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (m *userLookupMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *userLookupMock) List(ctx context.Context) ([]domain.User, error) { return nil, nil }

func newProtectedApp(middleware *AuthMiddleware, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) (err error) {
		// Collapse returned errors into the envelope the service uses.
		defer func() {
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"error": fiber.Map{"code": domainErr.Code, "message": domainErr.Message}})
				err = nil
			}
		}()
		return c.Next()
	})
	handlers := append([]fiber.Handler{middleware.Handle}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"email": principal.User.Email})
	})
	app.Get("/protected", handlers...)
	return app
}

func activeUser(email string, role domain.UserRole) *domain.User {
	return &domain.User{ID: "user-1", Email: email, Role: role, Status: domain.UserStatusActive}
}

func TestMiddlewareAllowsValidBearerToken(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	users := &userLookupMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return activeUser(email, domain.UserRoleUser), nil
		},
	}
	app := newProtectedApp(NewAuthMiddleware(tm, users))

	token, _, err := tm.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "user@example.com")
}

func TestMiddlewareAcceptsCookieToken(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	users := &userLookupMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return activeUser(email, domain.UserRoleUser), nil
		},
	}
	app := newProtectedApp(NewAuthMiddleware(tm, users))

	token, _, err := tm.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	app := newProtectedApp(NewAuthMiddleware(tm, &userLookupMock{}))

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenManager(testAuthConfig())
	token, _, err := issuer.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	verifier := NewTokenManager(testAuthConfig())
	verifier.now = func() time.Time { return time.Now().Add(16 * time.Minute) }
	app := newProtectedApp(NewAuthMiddleware(verifier, &userLookupMock{}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Token has expired")
}

func TestMiddlewareRejectsSuspendedAccount(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	users := &userLookupMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			user := activeUser(email, domain.UserRoleUser)
			user.Status = domain.UserStatusSuspended
			return user, nil
		},
	}
	app := newProtectedApp(NewAuthMiddleware(tm, users))

	token, _, err := tm.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRequireRoleUsesStoredRole(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	users := &userLookupMock{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			// Token says ADMIN but the stored account was demoted.
			return activeUser(email, domain.UserRoleUser), nil
		},
	}
	app := newProtectedApp(NewAuthMiddleware(tm, users), RequireRole(domain.UserRoleAdmin))

	token, _, err := tm.Generate(TokenKindAccess, "user-1", "user@example.com", domain.UserRoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "You do not have permission to access this resource")
}
