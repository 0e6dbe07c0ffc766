package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/config"
	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/pkg/password"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 60,
		},
		Session: config.SessionConfig{
			WriteTimeout: time.Second,
		},
	}

	return NewAuthService(userRepo, sessionRepo, cfg), userRepo, sessionRepo
}

func seedUser(t *testing.T, userRepo *fakeUserRepo, username, plaintext, status string) *models.User {
	t.Helper()

	hashed, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    username + "@peo.gov.ph",
		Password: hashed,
		Role:     string(domain.RoleDivisionClerk),
		Status:   status,
	}
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginIssuesTokenWithSessionRow(t *testing.T) {
	svc, userRepo, sessionRepo := newTestAuthService(t)
	seedUser(t, userRepo, "clerk1", "secret-pass", models.UserStatusActive)

	result, err := svc.Login(context.Background(), &LoginInput{Username: "clerk1", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if result.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if result.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if _, err := sessionRepo.GetByID(context.Background(), result.SessionID); err != nil {
		t.Errorf("session row should exist: %v", err)
	}

	claims, err := svc.Authorize(result.AccessToken)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}
	if claims.Username != "clerk1" {
		t.Errorf("claims username = %q, want clerk1", claims.Username)
	}
	if claims.SessionID != result.SessionID {
		t.Errorf("claims session id = %q, want %q", claims.SessionID, result.SessionID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)
	seedUser(t, userRepo, "clerk1", "secret-pass", models.UserStatusActive)

	_, err := svc.Login(context.Background(), &LoginInput{Username: "clerk1", Password: "wrong"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.Login(context.Background(), &LoginInput{Username: "nobody", Password: "whatever"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)
	seedUser(t, userRepo, "pending1", "secret-pass", models.UserStatusPending)

	_, err := svc.Login(context.Background(), &LoginInput{Username: "pending1", Password: "secret-pass"})
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
}

func TestLoginDegradesToTokenOnlyAuth(t *testing.T) {
	svc, userRepo, sessionRepo := newTestAuthService(t)
	seedUser(t, userRepo, "clerk1", "secret-pass", models.UserStatusActive)
	sessionRepo.failCreate = true

	result, err := svc.Login(context.Background(), &LoginInput{Username: "clerk1", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login should survive a session write failure: %v", err)
	}

	if result.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if result.SessionID != "" {
		t.Errorf("session id = %q, want empty on degraded login", result.SessionID)
	}

	// The degraded token still authenticates...
	claims, err := svc.Authorize(result.AccessToken)
	if err != nil {
		t.Fatalf("Authorize failed: %v", err)
	}

	// ...but fails the hard-revocation check
	alive, err := svc.CheckSession(context.Background(), claims.SessionID)
	if err != nil {
		t.Fatalf("CheckSession failed: %v", err)
	}
	if alive {
		t.Error("token-only auth should not pass the session check")
	}
}

func TestRevokedTokenStaysValidUntilExpiry(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)
	seedUser(t, userRepo, "clerk1", "secret-pass", models.UserStatusActive)

	result, err := svc.Login(context.Background(), &LoginInput{Username: "clerk1", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Revoke(context.Background(), result.SessionID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	// The token check knows nothing about the session row
	if _, err := svc.Authorize(result.AccessToken); err != nil {
		t.Errorf("revoked session's token should still pass Authorize, got %v", err)
	}

	// The session check sees the revocation
	alive, err := svc.CheckSession(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("CheckSession failed: %v", err)
	}
	if alive {
		t.Error("CheckSession should report the session revoked")
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if err := svc.Revoke(context.Background(), "never-existed"); err != nil {
		t.Errorf("revoking an absent session should succeed, got %v", err)
	}
	if err := svc.Revoke(context.Background(), ""); err != nil {
		t.Errorf("revoking an empty session id should succeed, got %v", err)
	}
}

func TestRevokeAll(t *testing.T) {
	svc, userRepo, sessionRepo := newTestAuthService(t)
	user := seedUser(t, userRepo, "clerk1", "secret-pass", models.UserStatusActive)

	var sessionIDs []string
	for i := 0; i < 3; i++ {
		result, err := svc.Login(context.Background(), &LoginInput{Username: "clerk1", Password: "secret-pass"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		sessionIDs = append(sessionIDs, result.SessionID)
	}

	if err := svc.RevokeAll(context.Background(), user.ID); err != nil {
		t.Fatalf("RevokeAll failed: %v", err)
	}

	for _, id := range sessionIDs {
		if _, err := sessionRepo.GetByID(context.Background(), id); err == nil {
			t.Errorf("session %s should be gone", id)
		}
	}
}

func TestCheckSessionExpiredRow(t *testing.T) {
	svc, _, sessionRepo := newTestAuthService(t)

	session := &models.Session{
		ID:        "expired-session",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := sessionRepo.Create(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	alive, err := svc.CheckSession(context.Background(), "expired-session")
	if err != nil {
		t.Fatalf("CheckSession failed: %v", err)
	}
	if alive {
		t.Error("an expired session row should not pass the check")
	}
}

func TestSessionSweepRemovesExpiredRows(t *testing.T) {
	_, _, sessionRepo := newTestAuthService(t)

	sessionRepo.Create(context.Background(), &models.Session{
		ID: "live", UserID: 1, ExpiresAt: time.Now().Add(time.Hour),
	})
	sessionRepo.Create(context.Background(), &models.Session{
		ID: "dead", UserID: 1, ExpiresAt: time.Now().Add(-time.Hour),
	})

	removed, err := sessionRepo.DeleteExpired(context.Background())
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := sessionRepo.GetByID(context.Background(), "live"); err != nil {
		t.Error("live session should survive the sweep")
	}
}
