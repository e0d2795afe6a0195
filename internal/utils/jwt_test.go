package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func init() {
	SetTokenSecrets(testAccessSecret, testRefreshSecret)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "ADMIN")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateAccessToken() returned empty token")
	}

	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, expected 42", claims.UserID)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("Role = %q, expected %q", claims.Role, "ADMIN")
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType = %q, expected %q", claims.TokenType, TokenTypeAccess)
	}
}

func TestGenerateRefreshToken_RoundTrip(t *testing.T) {
	token, jti, expiresAt, err := GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	if jti == "" {
		t.Fatal("GenerateRefreshToken() returned empty jti")
	}
	if expiresAt.Before(time.Now()) {
		t.Error("refresh token should not be expired on issue")
	}

	claims, err := ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("ParseRefreshToken() error = %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("UserID = %d, expected 7", claims.UserID)
	}
	if claims.ID != jti {
		t.Errorf("jti = %q, expected %q", claims.ID, jti)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("TokenType = %q, expected %q", claims.TokenType, TokenTypeRefresh)
	}
}

func TestGenerateRefreshToken_UniqueJTI(t *testing.T) {
	_, jti1, _, _ := GenerateRefreshToken(1)
	_, jti2, _, _ := GenerateRefreshToken(1)

	if jti1 == jti2 {
		t.Error("each refresh token should carry a unique jti")
	}
}

func TestParseToken_CrossTypeRejected(t *testing.T) {
	access, _ := GenerateAccessToken(1, "EDITOR")
	refresh, _, _, _ := GenerateRefreshToken(1)

	// Distinct secrets: the cross parse fails on signature before the
	// type claim is even looked at.
	if _, err := ParseRefreshToken(access); err == nil {
		t.Error("access token should not verify as refresh token")
	}
	if _, err := ParseAccessToken(refresh); err == nil {
		t.Error("refresh token should not verify as access token")
	}
}

func TestParseToken_WrongTypeClaim(t *testing.T) {
	// With identical secrets the type claim is the only distinction.
	SetTokenSecrets("shared-secret", "shared-secret")
	defer SetTokenSecrets(testAccessSecret, testRefreshSecret)

	access, _ := GenerateAccessToken(1, "EDITOR")
	_, err := ParseRefreshToken(access)
	if !errors.Is(err, ErrTokenWrongType) {
		t.Errorf("error = %v, expected ErrTokenWrongType", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	invalidTokens := []string{
		"",
		"invalid",
		"not.a.token",
	}

	for _, token := range invalidTokens {
		if _, err := ParseAccessToken(token); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("ParseAccessToken(%q) error = %v, expected ErrTokenMalformed", token, err)
		}
	}
}

func TestParseToken_BadSignature(t *testing.T) {
	forged := signRefreshClaims(t, "wrong-secret", time.Now().Add(time.Hour))

	_, err := ParseRefreshToken(forged)
	if !errors.Is(err, ErrTokenBadSignature) {
		t.Errorf("error = %v, expected ErrTokenBadSignature", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	expired := signRefreshClaims(t, testRefreshSecret, time.Now().Add(-time.Hour))

	_, err := ParseRefreshToken(expired)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("error = %v, expected ErrTokenExpired", err)
	}
}

func TestExtractRefreshClaims_Expired(t *testing.T) {
	expired := signRefreshClaims(t, testRefreshSecret, time.Now().Add(-time.Hour))

	claims, err := ExtractRefreshClaims(expired)
	if err != nil {
		t.Fatalf("ExtractRefreshClaims() error = %v, expected nil for expired token", err)
	}
	if claims.ID != "expired-jti" {
		t.Errorf("jti = %q, expected %q", claims.ID, "expired-jti")
	}
}

func TestExtractRefreshClaims_BadSignature(t *testing.T) {
	forged := signRefreshClaims(t, "wrong-secret", time.Now().Add(-time.Hour))

	if _, err := ExtractRefreshClaims(forged); err == nil {
		t.Error("ExtractRefreshClaims should still reject a bad signature")
	}
}

func TestAccessToken_ExpiryWindow(t *testing.T) {
	SetTokenTTLs(15, 168)

	token, _ := GenerateAccessToken(1, "MANAGER")
	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}

	expected := time.Now().Add(15 * time.Minute)
	diff := claims.ExpiresAt.Time.Sub(expected)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiration time is off by more than 1 minute: %v", diff)
	}
}

// signRefreshClaims builds a refresh-shaped token with a chosen secret and
// expiry, bypassing the package TTL settings.
func signRefreshClaims(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID:    1,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "expired-jti",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}
