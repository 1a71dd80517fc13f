package auth

import (
	"context"
	"errors"
)

type contextKey string

const claimsKey = contextKey("claims")

// WithClaims сохраняет утверждения токена в контексте
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext достает утверждения токена из контекста
func ClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, errors.New("claims not found in context")
	}
	return claims, nil
}
