package middleware

import (
	"errors"
	"strings"

	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/core/services"
	"peo-doctrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. It verifies the token
// signature and expiry only; revoked sessions pass until the token
// expires. Routes that need hard revocation add RequireSession.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := authService.Authorize(accessToken)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		c.Locals("sessionID", claims.SessionID)

		return c.Next()
	}
}

// RequirePermission gates a route on a role permission
func RequirePermission(perm domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !domain.Allowed(domain.Role(role), perm) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequireSession enforces hard revocation: the session row backing the
// token must still exist. Tokens issued without a session row (degraded
// login) are rejected here.
func RequireSession(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID, _ := c.Locals("sessionID").(string)

		alive, err := authService.CheckSession(c.Context(), sessionID)
		if err != nil {
			return response.InternalServerError(c, "Session check failed")
		}
		if !alive {
			return response.Unauthorized(c, "Session revoked or expired")
		}

		return c.Next()
	}
}

// Actor extracts the authenticated identity set by AuthMiddleware
func Actor(c *fiber.Ctx) services.Actor {
	userID, _ := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)
	role, _ := c.Locals("role").(string)

	return services.Actor{
		UserID:   userID,
		Username: username,
		Role:     domain.Role(role),
	}
}
