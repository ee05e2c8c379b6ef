package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// UserContextKey is where the authenticated *models.JwtCustomClaims are stored.
const UserContextKey = "user"

// TokenResolver accepts a local JWT or a Firebase ID token and returns the local user's claims.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.JwtCustomClaims, error)
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	// Expecting "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}
			claims, err := resolver.ResolveToken(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

// OptionalAuth identifies the caller when a valid token is sent and lets anonymous
// requests through otherwise.
func OptionalAuth(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if claims, err := resolver.ResolveToken(c.Request().Context(), token); err == nil {
					c.Set(UserContextKey, claims)
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(c echo.Context) uint {
	claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
