package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// stubTokens accepts the tokens listed in valid.
type stubTokens struct {
	valid map[string]domain.Principal
}

func (s *stubTokens) Issue(p domain.Principal) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *stubTokens) Verify(token string) (domain.Principal, error) {
	p, ok := s.valid[token]
	if !ok {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return p, nil
}

var capturista = domain.Principal{UserID: 7, Role: domain.RoleCapturista, Name: "Ana"}

func newTokens() *stubTokens {
	return &stubTokens{valid: map[string]domain.Principal{"good": capturista}}
}

func TestRequireSession_Cookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := RequireSession(newTokens())(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok || p.UserID != 7 {
			t.Fatalf("principal not attached: %+v", p)
		}
		if p2, ok := domain.PrincipalFromContext(c.Request().Context()); !ok || p2.UserID != 7 {
			t.Fatalf("principal not on request context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRequireSession_BadCookieGoodBearer(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired"})
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := RequireSession(newTokens())(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := h(c); err != nil {
		t.Fatalf("expected bearer token to authenticate, got %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRequireSession_Rejects(t *testing.T) {
	cases := map[string]func(r *http.Request){
		"missing":      func(r *http.Request) {},
		"invalid":      func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer nope") },
		"wrong scheme": func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Token good") },
		"empty cookie": func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: ""}) },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			setup(req)
			c := e.NewContext(req, httptest.NewRecorder())

			h := RequireSession(newTokens())(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if err := h(c); err != domain.ErrUnauthenticated {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestOptionalSession(t *testing.T) {
	e := echo.New()

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.Header.Set(echo.HeaderAuthorization, "Bearer nope")
	c := e.NewContext(anon, httptest.NewRecorder())
	h := OptionalSession(newTokens())(func(c echo.Context) error {
		if _, ok := PrincipalFrom(c); ok {
			t.Fatalf("invalid token must not attach a principal")
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("anonymous request should pass, got %v", err)
	}

	authed := httptest.NewRequest(http.MethodGet, "/", nil)
	authed.Header.Set(echo.HeaderAuthorization, "bearer good")
	c = e.NewContext(authed, httptest.NewRecorder())
	h = OptionalSession(newTokens())(func(c echo.Context) error {
		if p, ok := PrincipalFrom(c); !ok || p.Role != domain.RoleCapturista {
			t.Fatalf("expected principal, got %+v", p)
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestClearSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)

	ClearSessionCookie(c, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != SessionCookie || ck.MaxAge >= 0 || !ck.HttpOnly || !ck.Secure || ck.Path != "/" {
		t.Fatalf("unexpected cookie %+v", ck)
	}
}
