// Package token signs and verifies session tokens with HS256.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/pkg/ids"
)

const (
	issuer     = "incident-system"
	DefaultTTL = 15 * time.Minute
)

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Role domain.Role `json:"role"`
	Name string      `json:"nombre,omitempty"`
	jwt.RegisteredClaims
}

// JWTService implements ports.TokenService.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService returns a JWTService. A non-positive ttl falls back to DefaultTTL.
func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWTService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued tokens.
func (s *JWTService) TTL() time.Duration { return s.ttl }

// Issue signs a token for p that expires after the configured TTL.
func (s *JWTService) Issue(p domain.Principal) (string, time.Time, error) {
	if p.UserID <= 0 {
		return "", time.Time{}, errors.New("token: principal has no user id")
	}
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		Role: p.Role,
		Name: p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        ids.New(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm, issuer and expiry. Every failure yields
// domain.ErrInvalidToken.
func (s *JWTService) Verify(raw string) (domain.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 || !claims.Role.Valid() {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return domain.Principal{UserID: id, Role: claims.Role, Name: claims.Name}, nil
}
