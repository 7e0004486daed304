package authdomain

import (
	"context"
	"time"
)

// Claims is the caller identity carried by a bearer token.
type Claims struct {
	UserID      string
	DisplayName string
	Email       string
	ExpiresAt   time.Time
	IssuedAt    time.Time
}

// IsExpired checks if the claims have expired at now.
func (c *Claims) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type callerKey struct{}

// WithCaller stores the authenticated caller on the context.
func WithCaller(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, callerKey{}, claims)
}

// Caller returns the authenticated caller, or nil.
func Caller(ctx context.Context) *Claims {
	claims, _ := ctx.Value(callerKey{}).(*Claims)
	return claims
}

// CallerID returns the authenticated user id, or "" for anonymous requests.
func CallerID(ctx context.Context) string {
	if claims := Caller(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
