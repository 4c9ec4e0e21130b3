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

func TestEventHandler_Create(t *testing.T) {
	svc := &stubEventService{
		createFn: func(ctx context.Context, in ports.EventInput) (*domain.Event, error) {
			if in.Name == nil || *in.Name != "Feria" || in.StartDate == nil || in.StartDate.String() != "2024-03-01" {
				t.Fatalf("unexpected input %+v", in)
			}
			if in.EndDate != nil {
				t.Fatalf("fecha_fin was not sent")
			}
			return &domain.Event{ID: 7, Name: *in.Name, StartDate: *in.StartDate, Status: domain.StatusActive}, nil
		},
	}
	h := NewEventHandler(svc)

	c, rec := newContext(http.MethodPost, "/eventos", strings.NewReader(`{"nombre_evento":"Feria","fecha_inicio":"2024-03-01"}`), adminP)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	data := decode(t, rec)["data"].(map[string]any)
	if data["id_evento"] != float64(7) || data["fecha_inicio"] != "2024-03-01" || data["estatus"] != "ACTIVO" {
		t.Fatalf("unexpected body %+v", data)
	}
}

func TestEventHandler_Update_BadStatus(t *testing.T) {
	h := NewEventHandler(&stubEventService{})
	c, _ := newContext(http.MethodPut, "/eventos/7", strings.NewReader(`{"estatus":"BORRADO"}`), adminP, "id", "7")

	if err := h.Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEventHandler_Delete(t *testing.T) {
	var deleted int64
	svc := &stubEventService{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	h := NewEventHandler(svc)
	c, rec := newContext(http.MethodDelete, "/eventos/7", nil, adminP, "id", "7")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != 7 {
		t.Fatalf("expected delete of 7, got %d", deleted)
	}
	resp := decode(t, rec)
	if resp["ok"] != true || resp["message"] == "" {
		t.Fatalf("unexpected body %+v", resp)
	}
}
