package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/api/metrics"
	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/policy"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes and renders {"ok": false, "message": "..."}. Unexpected
// errors are logged and reported with a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{OK: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		denied(policy.ReasonUnauthenticated)
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, domain.ErrUnauthenticated):
		denied(policy.ReasonUnauthenticated)
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrInsufficientRole):
		denied(policy.ReasonInsufficientRole)
		return http.StatusForbidden, "insufficient role for this action"
	case errors.Is(err, domain.ErrNotOwner):
		denied(policy.ReasonNotOwner)
		return http.StatusForbidden, "only the creator of this record may modify it"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts, try again later"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, userMessage(err, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, userMessage(err, "conflict with current state")
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, userMessage(err, "invalid request")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func denied(r policy.Reason) {
	metrics.AuthorizationDeniedTotal.WithLabelValues(string(r)).Inc()
}

// userMessage returns the message of the typed domain error wrapped in err.
// Wrapping context added by services stays out of the response.
func userMessage(err error, fallback string) string {
	var (
		ve *domain.ValidationError
		ne *domain.NotFoundError
		ce *domain.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Msg
	case errors.As(err, &ne):
		return ne.Error()
	case errors.As(err, &ce):
		return ce.Msg
	}
	return fallback
}
