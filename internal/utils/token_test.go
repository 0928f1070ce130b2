package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestNewServiceTokenRoundTrip(t *testing.T) {
	tok, err := NewServiceToken("test-secret", "booking-frontend", 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.Exp.Before(time.Now().UTC()) {
		t.Fatal("token already expired")
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "booking-frontend" {
		t.Fatalf("sub = %v", claims["sub"])
	}
}

func TestNewServiceTokenWrongSecretRejected(t *testing.T) {
	tok, err := NewServiceToken("test-secret", "booking-frontend", 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("s3cr3t", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifySecret(hash, "s3cr3t") {
		t.Fatal("correct secret rejected")
	}
	if VerifySecret(hash, "wrong") {
		t.Fatal("wrong secret accepted")
	}
}
