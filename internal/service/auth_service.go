package service

import (
	"context"
	"ops-portal/internal/auth"
)

// AuthService is the slice of the authentication hub the HTTP layer depends on.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*auth.View, error)
	SignOut(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*auth.View, string, error)
}

var _ AuthService = (*auth.Hub)(nil)
