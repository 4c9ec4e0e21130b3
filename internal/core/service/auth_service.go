package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// AuthService implements login against the credential store.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	log     zerolog.Logger

	compare func(hash, password []byte) error
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// missingUserHash is compared against when the email is unknown so both
// branches pay one bcrypt comparison at the production cost.
func missingUserHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// NewAuthService wires the credential store and token issuer. limiter may be nil.
func NewAuthService(users ports.UserRepository, tokens ports.TokenService, limiter ports.LoginLimiter, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, limiter: limiter, log: log, compare: bcrypt.CompareHashAndPassword}
}

// Login verifies email and password and issues a session token. Unknown email,
// wrong password and inactive accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, continuing")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.compare(missingUserHash(), []byte(password))
			return nil, s.reject(ctx, email)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.compare([]byte(user.PasswordHash), []byte(password)) != nil || !user.Active() {
		return nil, s.reject(ctx, email)
	}

	p := domain.Principal{UserID: user.ID, Role: user.Role, Name: user.Name}
	token, exp, err := s.tokens.Issue(p)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return &ports.Session{Token: token, ExpiresAt: exp, Principal: p}, nil
}

func (s *AuthService) reject(ctx context.Context, email string) error {
	if s.limiter != nil {
		if err := s.limiter.Fail(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login attempt")
		}
	}
	return domain.ErrInvalidCredentials
}
