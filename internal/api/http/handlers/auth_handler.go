package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/specialist-marketplace/internal/api/dto"
	"github.com/spec-kit/specialist-marketplace/internal/auth"
	"github.com/spec-kit/specialist-marketplace/internal/service"
	apperrors "github.com/spec-kit/specialist-marketplace/pkg/util"
)

// AuthHandler exposes registration, login and token lifecycle endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// Login handles POST /auth/login. Tokens are returned in the body and
// mirrored as httpOnly cookies.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetAuthCookies(c, pair)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.AuthResponse{
				AccessToken:  pair.AccessToken,
				RefreshToken: pair.RefreshToken,
				ExpiresAt:    pair.AccessExpiresAt,
			},
		},
	})
}

// Refresh handles POST /auth/refresh-token. The refresh token is read
// from the request body, falling back to the session cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	_ = c.BodyParser(&req)
	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken = c.Cookies(auth.RefreshTokenCookie)
	}

	accessToken, expiresAt, err := h.auth.RefreshAccessToken(c.Context(), refreshToken)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    accessToken,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			AccessToken: accessToken,
			ExpiresAt:   expiresAt,
		},
	})
}

// Logout handles POST /auth/logout by expiring the session cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	auth.ClearAuthCookies(c)
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "Logged out successfully"},
	})
}

// ForgetPassword handles POST /auth/forget-password.
func (h *AuthHandler) ForgetPassword(c *fiber.Ctx) error {
	var req dto.ForgetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	message, err := h.auth.ForgetPassword(c.Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": message},
	})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new_password required", nil)
	}

	if err := h.auth.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "Password has been reset successfully"},
	})
}
