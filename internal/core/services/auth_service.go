package services

import (
	"context"
	"errors"
	"log"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/adapters/persistence/repositories"
	"peo-doctrack/internal/config"
	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/pkg/jwt"
	"peo-doctrack/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService is the session authority. Authentication has two
// representations: the signed token (stateless fast path) and the session
// row (revocable slow path). Authorize checks only the token; revoking a
// session does not invalidate the token, so operations that need hard
// revocation must also call CheckSession.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *models.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
	SessionID   string               `json:"session_id,omitempty"`
}

// Login authenticates a user and issues a token backed by a session row.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive() {
		return nil, domain.ErrUserInactive
	}

	// 3. Verify password (bcrypt, deliberately slow)
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 4. Create session row, best effort. Login must not fail because the
	// session table is unavailable; the token alone still authenticates.
	sessionID := s.createSession(ctx, user.ID)

	// 5. Sign token carrying (user, role, session id)
	accessToken, err := jwt.GenerateToken(
		user.ID,
		user.Username,
		user.Role,
		sessionID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: accessToken,
		SessionID:   sessionID,
	}, nil
}

// Authorize verifies the token signature and expiry. It does not consult
// the session row; a revoked session's token stays valid until it expires.
func (s *AuthService) Authorize(accessToken string) (*jwt.Claims, error) {
	claims, err := jwt.ValidateToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// CheckSession reports whether the backing session row still exists and
// has not expired. This is the hard-revocation path for sensitive
// operations.
func (s *AuthService) CheckSession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return !session.IsExpired(), nil
}

// Revoke deletes the session row. Idempotent: revoking an absent session
// is not an error.
func (s *AuthService) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// RevokeAll deletes every session row for a user
func (s *AuthService) RevokeAll(ctx context.Context, userID uint) error {
	if err := s.sessionRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// createSession writes the session row under a short timeout and returns
// its id, or an empty id when the write failed.
func (s *AuthService) createSession(ctx context.Context, userID uint) string {
	writeCtx, cancel := context.WithTimeout(ctx, s.cfg.Session.WriteTimeout)
	defer cancel()

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.AccessTokenMins),
	}

	if err := s.sessionRepo.Create(writeCtx, session); err != nil {
		log.Printf("⚠️ Session row write failed, issuing token-only auth: %v", err)
		return ""
	}

	return session.ID
}
