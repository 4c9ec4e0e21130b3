package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

func TestUserHandler_Create_HidesHash(t *testing.T) {
	svc := &stubUserService{
		createFn: func(ctx context.Context, in ports.UserInput) (*domain.User, error) {
			if in.Role != nil {
				t.Fatalf("rol was not sent")
			}
			return &domain.User{ID: 4, Name: *in.Name, Email: *in.Email, PasswordHash: "$2a$hash", Role: domain.RoleCapturista, Status: domain.StatusActive}, nil
		},
	}
	h := NewUserHandler(svc)

	body := `{"nombre":"Luis","correo":"luis@example.com","password":"secret1"}`
	c, rec := newContext(http.MethodPost, "/usuarios-admin", strings.NewReader(body), adminP)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
	data := decode(t, rec)["data"].(map[string]any)
	if data["idUsuario"] != float64(4) || data["rol"] != "CAPTURISTA" {
		t.Fatalf("unexpected body %+v", data)
	}
}

func TestUserHandler_Create_Validation(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	for _, body := range []string{
		`{"nombre":"Luis","correo":"not-an-email","password":"secret1"}`,
		`{"nombre":"Luis","correo":"luis@example.com","password":"123"}`,
		`{"nombre":"Luis","correo":"luis@example.com","password":"secret1","rol":"ROOT"}`,
	} {
		c, _ := newContext(http.MethodPost, "/usuarios-admin", strings.NewReader(body), adminP)
		if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", body, err)
		}
	}
}
