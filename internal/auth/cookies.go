package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// AccessTokenCookie names the cookie carrying the short-lived token.
	AccessTokenCookie = "accessToken"
	// RefreshTokenCookie names the cookie carrying the long-lived token.
	RefreshTokenCookie = "refreshToken"
)

// SetAuthCookies attaches issued tokens as httpOnly cookies. Either token
// may be empty, in which case its cookie is left untouched.
func SetAuthCookies(c *fiber.Ctx, pair *TokenPair) {
	if pair == nil {
		return
	}
	if pair.AccessToken != "" {
		c.Cookie(&fiber.Cookie{
			Name:     AccessTokenCookie,
			Value:    pair.AccessToken,
			Expires:  pair.AccessExpiresAt,
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteNoneMode,
		})
	}
	if pair.RefreshToken != "" {
		c.Cookie(&fiber.Cookie{
			Name:     RefreshTokenCookie,
			Value:    pair.RefreshToken,
			Expires:  pair.RefreshExpiresAt,
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteNoneMode,
		})
	}
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteNoneMode,
		})
	}
}
