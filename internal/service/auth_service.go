package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/specialist-marketplace/internal/auth"
	"github.com/spec-kit/specialist-marketplace/internal/config"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
	"github.com/spec-kit/specialist-marketplace/internal/events"
	"github.com/spec-kit/specialist-marketplace/internal/repository"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

// AuthService coordinates registration, login and the token lifecycle.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth)
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     tokens,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with the default role.
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password are required", nil)
	}
	email = strings.ToLower(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("User already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleUser,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, events.UserRegisteredPayload{
		UserID: user.ID,
		Email:  user.Email,
	})

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login authenticates an account and issues a token pair. Unknown email and
// wrong password report the same failure so account existence never leaks.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *auth.TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, apperrors.NewValidationError("Email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("Invalid email or password")
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("Invalid email or password")
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, pair, nil
}

// RefreshAccessToken verifies the refresh token, re-checks the account and
// mints a fresh access token carrying the account's current identity. The
// refresh token itself is never reissued; it stays valid until its own
// expiry.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if refreshToken == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("Refresh token is required")
	}

	claims, err := s.tokens.Verify(refreshToken, auth.TokenKindRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return "", time.Time{}, apperrors.NewUnauthorized("Token has expired")
		}
		return "", time.Time{}, apperrors.NewUnauthorized("Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("User account not found")
		}
		return "", time.Time{}, err
	}
	if !strings.EqualFold(user.Email, claims.Email) {
		return "", time.Time{}, apperrors.NewUnauthorized("User account not found")
	}

	// Claims are rebuilt from storage, not the old token, so role changes
	// take effect on the next refresh.
	return s.tokens.Generate(auth.TokenKindAccess, user.ID, user.Email, user.Role)
}

// ForgetPassword validates the email. The reset token slot is configured
// but the delivery path is disabled; the response stays generic either way.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", apperrors.NewValidationError("Email is required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, strings.ToLower(email)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundMessage("User not found")
		}
		return "", err
	}

	return "Password reset link sent to your email", nil
}

// ResetPassword verifies a password-reset token and stores the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Verify(token, auth.TokenKindPasswordReset)
	if err != nil {
		return apperrors.NewValidationError("Invalid or expired reset token", nil)
	}
	if claims.UserID == "" || claims.Email == "" {
		return apperrors.NewValidationError("Invalid token payload", nil)
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundMessage("User not found or token mismatch")
		}
		return err
	}
	if user.ID != claims.UserID {
		return apperrors.NewNotFoundMessage("User not found or token mismatch")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
