// utils/auth_test.go
package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harisapp/haris_backend/middleware"
	"github.com/harisapp/haris_backend/models"
)

func signSessionToken(t *testing.T, secret string) string {
	t.Helper()
	claims := &middleware.JwtCustomClaims{
		UserID:   primitive.NewObjectID().Hex(),
		Email:    "client@haris-security.com",
		UserType: models.UserTypeClient,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateTokenMissing(t *testing.T) {
	result, err := ValidateToken("", nil)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if result.Valid {
		t.Error("empty token reported valid")
	}
	if result.Message != "No token provided" {
		t.Errorf("message = %q", result.Message)
	}
}

func TestValidateTokenMalformed(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	result, err := ValidateToken("not-a-jwt", nil)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if result.Valid {
		t.Error("malformed token reported valid")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signSessionToken(t, "some-other-secret")
	result, err := ValidateToken(token, nil)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if result.Valid {
		t.Error("token signed with a different secret reported valid")
	}
}

func TestValidateTokenBlacklisted(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := signSessionToken(t, "test-secret")
	middleware.BlacklistToken(token, time.Now().Add(time.Hour))

	result, err := ValidateToken(token, nil)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if result.Valid {
		t.Error("logged-out token reported valid")
	}
	if result.Message != "Token has been invalidated" {
		t.Errorf("message = %q", result.Message)
	}
}
