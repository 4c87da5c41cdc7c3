// Package context carries request-scoped values (request id, logger, caller
// identity) across the delivery and usecase layers.
package context

import (
	"context"
	"log/slog"

	"github.com/dabinj96/Peaberry-sub000/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing request ID in context.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger is the key for storing request-scoped logger in context.
	KeyLogger ContextKey = "logger"

	// KeyAccountID is the key for the authenticated caller's account id.
	KeyAccountID ContextKey = "account_id"

	// KeyRole is the key for the authenticated caller's role.
	KeyRole ContextKey = "role"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID extracts the request ID from echo.Context.
// If not found, generates a new UUID.
func GetRequestID(c echo.Context) string {
	val := c.Get(string(KeyRequestID))
	if id, ok := val.(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetRequestIDFromContext extracts the request ID from standard context.Context.
// If not found, returns empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// GetLogger extracts the request-scoped logger from context.Context.
// If not found, returns nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return nil
}

// GetLoggerOrDefault extracts the request-scoped logger from context.Context.
// If not found, returns the provided fallback logger.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// SetCaller records the authenticated caller on the echo context.
func SetCaller(c echo.Context, accountID uint, role entity.Role) {
	c.Set(string(KeyAccountID), accountID)
	c.Set(string(KeyRole), role)
}

// GetCallerID returns the authenticated caller's account id, or 0 for
// anonymous requests.
func GetCallerID(c echo.Context) uint {
	if id, ok := c.Get(string(KeyAccountID)).(uint); ok {
		return id
	}

	return 0
}

// GetCallerRole returns the authenticated caller's role, or the empty role
// for anonymous requests.
func GetCallerRole(c echo.Context) entity.Role {
	if role, ok := c.Get(string(KeyRole)).(entity.Role); ok {
		return role
	}

	return ""
}

// IsAdmin reports whether the request carries an admin session.
func IsAdmin(c echo.Context) bool {
	return GetCallerRole(c) == entity.RoleAdmin
}
