package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     *string `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest optionally carries the refresh token in the body when the
// cookie is unavailable.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgetPasswordRequest payload.
type ForgetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// AuthResponse carries issued tokens.
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}
