package utils

import (
	"testing"

	"officials-rating-server/config"
)

func TestMain(m *testing.M) {
	config.Load()
	m.Run()
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("takedown-2pts!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "takedown-2pts!" {
		t.Fatal("hash must not equal the plain password")
	}
	if !CheckPasswordHash("takedown-2pts!", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "supervisor")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "supervisor" {
		t.Errorf("claims.Role = %q, want %q", claims.Role, "supervisor")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
