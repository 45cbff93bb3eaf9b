package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/specialist-marketplace/internal/config"
	"github.com/spec-kit/specialist-marketplace/internal/domain"
)

// TokenKind distinguishes the signing secret and lifetime used for a token.
type TokenKind string

const (
	TokenKindAccess        TokenKind = "access"
	TokenKindRefresh       TokenKind = "refresh"
	TokenKindPasswordReset TokenKind = "password_reset"
)

// Verification failures are collapsed into three categories so callers can
// choose their message without inspecting library error chains.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenMalformed = errors.New("malformed token")
)

// Claims describes the identity payload embedded in every token.
type Claims struct {
	UserID string          `json:"id"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenManager issues and validates JWTs for all configured token kinds.
type TokenManager struct {
	kinds map[TokenKind]config.TokenConfig
	now   func() time.Time
}

// NewTokenManager builds a manager from auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		kinds: map[TokenKind]config.TokenConfig{
			TokenKindAccess:        cfg.AccessToken,
			TokenKindRefresh:       cfg.RefreshToken,
			TokenKindPasswordReset: cfg.PasswordReset,
		},
		now: time.Now,
	}
}

// Generate builds and signs a token of the given kind for the user identity.
func (tm *TokenManager) Generate(kind TokenKind, userID string, email string, role domain.UserRole) (string, time.Time, error) {
	kc, ok := tm.kinds[kind]
	if !ok {
		return "", time.Time{}, errors.New("unknown token kind")
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(kc.TTL)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(kc.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// GeneratePair issues an access and a refresh token for the same identity.
func (tm *TokenManager) GeneratePair(userID string, email string, role domain.UserRole) (*TokenPair, error) {
	access, accessExp, err := tm.Generate(TokenKindAccess, userID, email, role)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := tm.Generate(TokenKindRefresh, userID, email, role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify validates signature and expiry against the kind's secret and
// returns the embedded claims. Failures map onto ErrTokenExpired,
// ErrTokenSignature or ErrTokenMalformed.
func (tm *TokenManager) Verify(tokenStr string, kind TokenKind) (*Claims, error) {
	kc, ok := tm.kinds[kind]
	if !ok {
		return nil, errors.New("unknown token kind")
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(kc.Secret), nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenSignature
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
