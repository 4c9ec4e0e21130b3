package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the access token.
const SessionCookie = "access_token"

// PrincipalKey is the echo.Context key holding the *domain.Principal.
const PrincipalKey = "principal"

// TokenExtractor pulls a candidate token out of a request.
type TokenExtractor func(c echo.Context) (string, bool)

// CookieExtractor reads the token from the named cookie.
func CookieExtractor(name string) TokenExtractor {
	return func(c echo.Context) (string, bool) {
		ck, err := c.Cookie(name)
		if err != nil || ck.Value == "" {
			return "", false
		}
		return ck.Value, true
	}
}

// BearerExtractor reads the token from an "Authorization: Bearer" header.
func BearerExtractor() TokenExtractor {
	return func(c echo.Context) (string, bool) {
		h := c.Request().Header.Get(echo.HeaderAuthorization)
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}
}

// DefaultExtractors tries the session cookie first, then the bearer header.
func DefaultExtractors() []TokenExtractor {
	return []TokenExtractor{CookieExtractor(SessionCookie), BearerExtractor()}
}

// Resolve runs the extractors in order and returns the principal of the first
// token that verifies. A bad cookie does not shadow a good bearer token.
func Resolve(c echo.Context, tokens ports.TokenService, extractors []TokenExtractor) (*domain.Principal, bool) {
	for _, extract := range extractors {
		raw, ok := extract(c)
		if !ok {
			continue
		}
		p, err := tokens.Verify(raw)
		if err != nil {
			continue
		}
		return &p, true
	}
	return nil, false
}

// RequireSession rejects the request with 401 unless a valid token is present.
func RequireSession(tokens ports.TokenService, extractors ...TokenExtractor) echo.MiddlewareFunc {
	if len(extractors) == 0 {
		extractors = DefaultExtractors()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Resolve(c, tokens, extractors)
			if !ok {
				return domain.ErrUnauthenticated
			}
			attach(c, p)
			return next(c)
		}
	}
}

// OptionalSession attaches the principal when a valid token is present and
// continues anonymously otherwise.
func OptionalSession(tokens ports.TokenService, extractors ...TokenExtractor) echo.MiddlewareFunc {
	if len(extractors) == 0 {
		extractors = DefaultExtractors()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p, ok := Resolve(c, tokens, extractors); ok {
				attach(c, p)
			}
			return next(c)
		}
	}
}

func attach(c echo.Context, p *domain.Principal) {
	c.Set(PrincipalKey, p)
	req := c.Request()
	c.SetRequest(req.WithContext(domain.ContextWithPrincipal(req.Context(), p)))
}

// PrincipalFrom returns the principal attached by the session middleware.
func PrincipalFrom(c echo.Context) (*domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*domain.Principal)
	if ok && p != nil {
		return p, true
	}
	return domain.PrincipalFromContext(c.Request().Context())
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
