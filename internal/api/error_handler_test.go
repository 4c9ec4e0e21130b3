package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, ""},
		{"token", domain.ErrInvalidToken, http.StatusUnauthorized, ""},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, ""},
		{"role", fmt.Errorf("delete incident: %w", domain.ErrInsufficientRole), http.StatusForbidden, ""},
		{"owner", domain.ErrNotOwner, http.StatusForbidden, ""},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, ""},
		{"not found", fmt.Errorf("get: %w", domain.NotFound("incident", 9)), http.StatusNotFound, "incident 9 not found"},
		{"conflict", domain.Conflict("corporation name already exists"), http.StatusConflict, "corporation name already exists"},
		{"validation", fmt.Errorf("create: %w", domain.Invalid("hora is required")), http.StatusBadRequest, "hora is required"},
		{"echo", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, "too big"},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			e.HTTPErrorHandler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.OK {
				t.Fatalf("ok must be false")
			}
			if body.Message == "" {
				t.Fatalf("message must not be empty")
			}
			if tc.msg != "" && body.Message != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, body.Message)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusNoContent)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrNotFound, c)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("committed response must not be rewritten, got %d", rec.Code)
	}
}
