package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret string, claims Claims, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(now time.Time) Claims {
	return Claims{
		Email: "writer@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://auth.example.com",
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestTokenVerifier_AcceptsValidToken(t *testing.T) {
	v := NewTokenVerifier("secret", "https://auth.example.com")
	token := signTestToken(t, "secret", validClaims(time.Now()), jwt.SigningMethodHS256)

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.UserID() != "user-1" || claims.Email != "writer@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenVerifier_Rejections(t *testing.T) {
	now := time.Now()

	expired := validClaims(now.Add(-2 * time.Hour))
	wrongIssuer := validClaims(now)
	wrongIssuer.Issuer = "https://evil.example.com"
	noSubject := validClaims(now)
	noSubject.Subject = ""
	noExpiry := validClaims(now)
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "  ", wantErr: ErrJWTInvalid},
		{name: "garbage", token: "not.a.jwt", wantErr: ErrJWTInvalid},
		{name: "expired", token: signTestToken(t, "secret", expired, jwt.SigningMethodHS256), wantErr: ErrJWTExpired},
		{name: "wrong secret", token: signTestToken(t, "other", validClaims(now), jwt.SigningMethodHS256), wantErr: ErrJWTInvalid},
		{name: "wrong method", token: signTestToken(t, "secret", validClaims(now), jwt.SigningMethodHS512), wantErr: ErrJWTInvalid},
		{name: "wrong issuer", token: signTestToken(t, "secret", wrongIssuer, jwt.SigningMethodHS256), wantErr: ErrJWTInvalid},
		{name: "missing subject", token: signTestToken(t, "secret", noSubject, jwt.SigningMethodHS256), wantErr: ErrJWTInvalid},
		{name: "missing expiry", token: signTestToken(t, "secret", noExpiry, jwt.SigningMethodHS256), wantErr: ErrJWTInvalid},
	}

	v := NewTokenVerifier("secret", "https://auth.example.com")
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.Verify(tc.token); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTokenVerifier_NoSecretRejectsEverything(t *testing.T) {
	v := NewTokenVerifier("", "")
	token := signTestToken(t, "secret", validClaims(time.Now()), jwt.SigningMethodHS256)
	if _, err := v.Verify(token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid, got %v", err)
	}
}
