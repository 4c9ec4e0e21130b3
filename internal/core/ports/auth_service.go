package ports

import (
	"context"
	"time"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	Issue(p domain.Principal) (token string, expiresAt time.Time, err error)
	// Verify returns domain.ErrInvalidToken for every kind of failure.
	Verify(token string) (domain.Principal, error)
}

// LoginLimiter counts failed sign-in attempts per key within a window.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.Principal
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
}
