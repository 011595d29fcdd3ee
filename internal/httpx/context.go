package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	accountIDKey contextKey = "accountID"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
)

// AccountIDFrom retrieves the authenticated account id from the request context.
func AccountIDFrom(r *http.Request) int64 {
	if v, ok := r.Context().Value(accountIDKey).(int64); ok {
		return v
	}
	return 0
}

// RoleFrom retrieves the authenticated role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithAccount returns a new context carrying the account id and role.
func ContextWithAccount(ctx context.Context, accountID int64, role string) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, accountID)
	return context.WithValue(ctx, roleKey, role)
}

// RequestIDFrom retrieves the request id from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
