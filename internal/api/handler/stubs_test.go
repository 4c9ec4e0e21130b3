package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/proteccion-civil/incident-system/internal/api/middleware"
	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var (
	adminP    = &domain.Principal{UserID: 1, Role: domain.RoleAdmin, Name: "Admin"}
	ownerP    = &domain.Principal{UserID: 2, Role: domain.RoleCapturista, Name: "Ana"}
	strangerP = &domain.Principal{UserID: 3, Role: domain.RoleCapturista, Name: "Beto"}
)

func ptr[T any](v T) *T { return &v }

// newContext builds an echo context for a handler call. params alternates
// names and values.
func newContext(method, target string, body io.Reader, p *domain.Principal, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(middleware.PrincipalKey, p)
	}
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

// ── auth ─────────────────────────────────────────────────────────────────────

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (*ports.Session, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

// ── events ───────────────────────────────────────────────────────────────────

type stubEventService struct {
	ports.EventService
	createFn func(ctx context.Context, in ports.EventInput) (*domain.Event, error)
	updateFn func(ctx context.Context, id int64, in ports.EventInput) (*domain.Event, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubEventService) Create(ctx context.Context, in ports.EventInput) (*domain.Event, error) {
	return s.createFn(ctx, in)
}

func (s *stubEventService) Update(ctx context.Context, id int64, in ports.EventInput) (*domain.Event, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubEventService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

// ── catalogs ─────────────────────────────────────────────────────────────────

type stubCatalogService struct {
	ports.CatalogService
	entries  []domain.CatalogEntry
	createFn func(ctx context.Context, in ports.CatalogInput) (*domain.CatalogEntry, error)
	toggleFn func(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubCatalogService) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.entries, nil
}

func (s *stubCatalogService) ListActive(ctx context.Context) ([]domain.CatalogEntry, error) {
	var out []domain.CatalogEntry
	for _, e := range s.entries {
		if e.Status == domain.StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubCatalogService) Create(ctx context.Context, in ports.CatalogInput) (*domain.CatalogEntry, error) {
	return s.createFn(ctx, in)
}

func (s *stubCatalogService) Toggle(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	return s.toggleFn(ctx, id)
}

func (s *stubCatalogService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

// ── incidents ────────────────────────────────────────────────────────────────

type stubIncidentService struct {
	ports.IncidentService
	listFn   func(ctx context.Context, eventID int64) ([]*domain.Incident, error)
	filterFn func(ctx context.Context, eventID int64, c domain.IncidentCriteria) ([]*domain.Incident, error)
	getFn    func(ctx context.Context, id int64) (*domain.Incident, error)
	createFn func(ctx context.Context, actor *domain.Principal, in ports.IncidentInput, key string) (*domain.Incident, error)
	closeFn  func(ctx context.Context, actor *domain.Principal, id int64) (*domain.Incident, error)
}

func (s *stubIncidentService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Incident, error) {
	return s.listFn(ctx, eventID)
}

func (s *stubIncidentService) Filter(ctx context.Context, eventID int64, c domain.IncidentCriteria) ([]*domain.Incident, error) {
	return s.filterFn(ctx, eventID, c)
}

func (s *stubIncidentService) Get(ctx context.Context, id int64) (*domain.Incident, error) {
	return s.getFn(ctx, id)
}

func (s *stubIncidentService) Create(ctx context.Context, actor *domain.Principal, in ports.IncidentInput, key string) (*domain.Incident, error) {
	return s.createFn(ctx, actor, in, key)
}

func (s *stubIncidentService) Close(ctx context.Context, actor *domain.Principal, id int64) (*domain.Incident, error) {
	return s.closeFn(ctx, actor, id)
}

// ── evidence ─────────────────────────────────────────────────────────────────

type stubEvidenceService struct {
	ports.EvidenceService
	uploadFn func(ctx context.Context, actor *domain.Principal, in ports.UploadInput) (*domain.Evidence, error)
	openFn   func(ctx context.Context, id int64) (*ports.EvidenceFile, error)
}

func (s *stubEvidenceService) Upload(ctx context.Context, actor *domain.Principal, in ports.UploadInput) (*domain.Evidence, error) {
	return s.uploadFn(ctx, actor, in)
}

func (s *stubEvidenceService) Open(ctx context.Context, id int64) (*ports.EvidenceFile, error) {
	return s.openFn(ctx, id)
}

// ── users ────────────────────────────────────────────────────────────────────

type stubUserService struct {
	ports.UserService
	createFn func(ctx context.Context, in ports.UserInput) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}
