package middleware

import (
	"strings"

	deliverycontext "github.com/dabinj96/Peaberry-sub000/internal/delivery/context"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/response"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// bearerToken extracts the bearer credential from the Authorization header.
// The second return is false when the header is absent or malformed.
func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return "", false
	}

	return token, true
}

// Authenticate validates the JWT access token and records the caller on the
// context. Requests without a valid token are rejected.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "UNAUTHORIZED", "Missing or malformed bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(token, service.TokenTypeAccess)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid or expired token")
		}

		deliverycontext.SetCaller(c, claims.AccountID, claims.Role)

		return next(c)
	}
}

// OptionalAuthenticate records the caller when a valid access token is
// present and lets the request through anonymously otherwise. Public read
// endpoints use it so results can carry caller-specific annotations.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := bearerToken(c); ok {
			if claims, err := m.tokenSvc.ValidateToken(token, service.TokenTypeAccess); err == nil {
				deliverycontext.SetCaller(c, claims.AccountID, claims.Role)
			}
		}

		return next(c)
	}
}

// RequireRole is a middleware factory that checks the caller's role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deliverycontext.GetCallerRole(c) != requiredRole {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}
