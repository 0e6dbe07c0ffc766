package jwt

import (
	"errors"
	"testing"
)

const testSecret = "test-secret-key"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "jdelacruz", "DIVISION_CLERK", "sess-123", testSecret, 60)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "jdelacruz" {
		t.Errorf("Username = %q, want jdelacruz", claims.Username)
	}
	if claims.Role != "DIVISION_CLERK" {
		t.Errorf("Role = %q, want DIVISION_CLERK", claims.Role)
	}
	if claims.SessionID != "sess-123" {
		t.Errorf("SessionID = %q, want sess-123", claims.SessionID)
	}
	if claims.Issuer != "peo-doctrack" {
		t.Errorf("Issuer = %q, want peo-doctrack", claims.Issuer)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "user", "ADMIN", "", testSecret, 60)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token, "wrong-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateToken(1, "user", "ADMIN", "", testSecret, -5)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	if _, err := ValidateToken("not-a-token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenOnlySessionID(t *testing.T) {
	// Degraded login: no session row, empty session id round-trips
	token, err := GenerateToken(7, "user", "ADMIN", "", testSecret, 60)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.SessionID != "" {
		t.Errorf("SessionID = %q, want empty", claims.SessionID)
	}
}
