package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/api/middleware"
	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// dataResponse is the success envelope.
type dataResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

// messageResponse is returned by deletes and other operations without a body.
type messageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// errorResponse documents the error envelope rendered by the HTTP error handler.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, dataResponse{OK: true, Data: data})
}

func respondMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, messageResponse{OK: true, Message: msg})
}

// principal returns the caller attached by the session middleware, or nil.
func principal(c echo.Context) *domain.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

// requirePrincipal fails fast when a protected route is reached without a session.
func requirePrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := parseID(c.Param(name))
	if err != nil {
		return 0, domain.Invalid("invalid " + name)
	}
	return id, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
