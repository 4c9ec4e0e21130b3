package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/api/handler"
	"github.com/proteccion-civil/incident-system/internal/api/middleware"
	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

type stubTokens struct{}

func (stubTokens) Issue(p domain.Principal) (string, time.Time, error) { return "", time.Time{}, nil }

func (stubTokens) Verify(token string) (domain.Principal, error) {
	switch token {
	case "admin":
		return domain.Principal{UserID: 1, Role: domain.RoleAdmin}, nil
	case "capturista":
		return domain.Principal{UserID: 2, Role: domain.RoleCapturista}, nil
	}
	return domain.Principal{}, domain.ErrInvalidToken
}

// newTestRouter mounts handlers without services; only requests rejected
// before reaching a service may be sent.
func newTestRouter() http.Handler {
	h := Handlers{
		Auth:         handler.NewAuthHandler(nil, false),
		Events:       handler.NewEventHandler(nil),
		Corporations: handler.NewCorporationHandler(nil),
		Motives:      handler.NewMotiveHandler(nil),
		Incidents:    handler.NewIncidentHandler(nil, nil, nil),
		Evidence:     handler.NewEvidenceHandler(nil, 0),
		Users:        handler.NewUserHandler(nil),
		Health:       handler.NewHealthHandler(nil),
	}
	return NewRouter(h, stubTokens{}, Options{
		CORSOrigins: []string{"http://localhost:5173"},
		Log:         zerolog.Nop(),
		Registry:    prometheus.NewRegistry(),
	})
}

func TestRouter_AccessControl(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		cookie string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"create incident needs session", http.MethodPost, "/incidencias", "", http.StatusUnauthorized},
		{"invalid cookie is unauthenticated", http.MethodPost, "/incidencias", "forged", http.StatusUnauthorized},
		{"capturista cannot delete incidents", http.MethodDelete, "/incidencias/5", "capturista", http.StatusForbidden},
		{"capturista cannot create events", http.MethodPost, "/eventos", "capturista", http.StatusForbidden},
		{"capturista cannot toggle motives", http.MethodPatch, "/motivos/1/toggle", "capturista", http.StatusForbidden},
		{"users are admin only", http.MethodGet, "/usuarios-admin", "capturista", http.StatusForbidden},
		{"users need a session", http.MethodGet, "/usuarios-admin", "", http.StatusUnauthorized},
		{"me needs a session", http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
		{"me with session", http.MethodGet, "/auth/me", "admin", http.StatusOK},
		{"logout is public", http.MethodPost, "/auth/logout", "", http.StatusOK},
		{"upload needs session", http.MethodPost, "/evidencias/upload", "", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_SetsRequestID(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if len(rec.Header().Get("X-Request-Id")) != 26 {
		t.Fatalf("expected a ULID request id, got %q", rec.Header().Get("X-Request-Id"))
	}
}
