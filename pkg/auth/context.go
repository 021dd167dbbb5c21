package auth

import (
	"context"
)

// Role labels carried in session tokens.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Context keys for authentication data
type contextKey string

const (
	// ContextKeyUserID is the context key for the user's database ID
	ContextKeyUserID contextKey = "user_id"
	// ContextKeyUsername is the context key for the authenticated username
	ContextKeyUsername contextKey = "username"
	// ContextKeyRole is the context key for the user's role
	ContextKeyRole contextKey = "role"
)

// WithUserID adds the user ID to the context
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// UserIDFromContext retrieves the user ID from the context
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(int64)
	return id, ok
}

// WithUsername adds the username to the context
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ContextKeyUsername, username)
}

// UsernameFromContext retrieves the username from the context
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ContextKeyUsername).(string)
	return name, ok
}

// WithRole adds the role to the context
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ContextKeyRole, role)
}

// RoleFromContext retrieves the role from the context
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(ContextKeyRole).(string)
	return role, ok
}

// WithClaims adds all token claims to the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = WithUserID(ctx, claims.UserID)
	ctx = WithUsername(ctx, claims.Username)
	ctx = WithRole(ctx, claims.Role)
	return ctx
}
