package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

func seededUsers(t *testing.T) *stubUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return newStubUserRepo(
		&domain.User{ID: 10, Name: "Carla", Email: "carla@example.com", PasswordHash: string(hash), Role: domain.RoleCapturista, Status: domain.StatusActive},
		&domain.User{ID: 11, Name: "Dora", Email: "dora@example.com", PasswordHash: string(hash), Role: domain.RoleAdmin, Status: domain.StatusInactive},
	)
}

func TestAuthService_Login_Success(t *testing.T) {
	tokens := &stubTokens{}
	svc := NewAuthService(seededUsers(t), tokens, nil, zerolog.Nop())

	sess, err := svc.Login(context.Background(), " Carla@Example.com ", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected token")
	}
	if sess.Principal.UserID != 10 || sess.Principal.Role != domain.RoleCapturista || sess.Principal.Name != "Carla" {
		t.Fatalf("unexpected principal %+v", sess.Principal)
	}
	if len(tokens.issued) != 1 || tokens.issued[0].UserID != 10 {
		t.Fatalf("token issued with wrong claims: %+v", tokens.issued)
	}
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	svc := NewAuthService(seededUsers(t), &stubTokens{}, nil, zerolog.Nop())

	cases := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@example.com", "s3cret"},
		{"wrong password", "carla@example.com", "nope"},
		{"inactive account", "dora@example.com", "s3cret"},
		{"empty input", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if err.Error() != domain.ErrInvalidCredentials.Error() {
				t.Fatalf("error message must not reveal the cause: %q", err.Error())
			}
		})
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	limiter := newStubLimiter(2)
	svc := NewAuthService(seededUsers(t), &stubTokens{}, limiter, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Login(ctx, "carla@example.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.Login(ctx, "carla@example.com", "s3cret"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	_ = limiter.Reset(ctx, "carla@example.com")
	if _, err := svc.Login(ctx, "carla@example.com", "s3cret"); err != nil {
		t.Fatalf("expected login after reset, got %v", err)
	}
	if limiter.failures["carla@example.com"] != 0 {
		t.Fatalf("successful login should clear failures")
	}
}

func TestAuthService_Login_UnknownEmailStillComparesHash(t *testing.T) {
	svc := NewAuthService(seededUsers(t), &stubTokens{}, nil, zerolog.Nop())
	var compared [][]byte
	svc.compare = func(hash, password []byte) error {
		compared = append(compared, hash)
		return bcrypt.ErrMismatchedHashAndPassword
	}

	for _, email := range []string{"nobody@example.com", "carla@example.com"} {
		if _, err := svc.Login(context.Background(), email, "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", email, err)
		}
	}
	if len(compared) != 2 {
		t.Fatalf("expected one comparison per attempt, got %d", len(compared))
	}
	cost, err := bcrypt.Cost(compared[0])
	if err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("unknown email compared against hash with cost %d (%v)", cost, err)
	}
}
