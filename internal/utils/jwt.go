package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Token verification failure kinds. All of them collapse to a generic 401
// at the HTTP boundary; they stay distinct for audit logging.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenWrongType    = errors.New("token type mismatch")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenRevoked      = errors.New("token revoked")
)

// Claims carried by both token types. Access tokens carry uid+role,
// refresh tokens carry uid+jti (RegisteredClaims.ID).
type Claims struct {
	UserID    uint   `json:"uid"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

var (
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     = 15 * time.Minute
	refreshTTL    = 168 * time.Hour
)

// SetTokenSecrets configures the HMAC secrets. The two token types are
// signed with distinct secrets so neither can stand in for the other.
func SetTokenSecrets(access, refresh string) {
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
}

// SetTokenTTLs configures token lifetimes. Non-positive values keep the
// current setting.
func SetTokenTTLs(accessMinutes, refreshHours int) {
	if accessMinutes > 0 {
		accessTTL = time.Duration(accessMinutes) * time.Minute
	}
	if refreshHours > 0 {
		refreshTTL = time.Duration(refreshHours) * time.Hour
	}
}

// GenerateAccessToken mints a short-lived access token for a user.
func GenerateAccessToken(userID uint, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(accessSecret)
}

// GenerateRefreshToken mints a refresh token with a unique jti. The jti is
// returned so callers can revoke it later; nothing is persisted here.
func GenerateRefreshToken(userID uint) (token, jti string, expiresAt time.Time, err error) {
	now := time.Now()
	jti = uuid.NewString()
	expiresAt = now.Add(refreshTTL)

	claims := Claims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(refreshSecret)
	return token, jti, expiresAt, err
}

// ParseAccessToken validates signature, type and expiry of an access token.
func ParseAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, TokenTypeAccess, accessSecret, true)
}

// ParseRefreshToken validates signature, type and expiry of a refresh token.
// Revocation status is checked separately against the revocation registry.
func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, TokenTypeRefresh, refreshSecret, true)
}

// ExtractRefreshClaims validates signature and type but skips expiry, so
// logout can revoke an already expired refresh token without erroring.
func ExtractRefreshClaims(tokenString string) (*Claims, error) {
	return parseToken(tokenString, TokenTypeRefresh, refreshSecret, false)
}

func parseToken(tokenString, wantType string, secret []byte, validateClaims bool) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}

	if claims.TokenType != wantType {
		return nil, ErrTokenWrongType
	}
	return claims, nil
}
