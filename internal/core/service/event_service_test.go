package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

func TestEventService_Create_DefaultsToActive(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, zerolog.Nop())

	start := domain.NewDate(2024, 9, 15)
	ev, err := svc.Create(context.Background(), ports.EventInput{Name: ptr("Fiestas patrias"), StartDate: &start})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.ID == 0 || ev.Status != domain.StatusActive {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestEventService_Create_Validation(t *testing.T) {
	svc := NewEventService(newStubEventRepo(), zerolog.Nop())
	start := domain.NewDate(2024, 9, 15)
	before := domain.NewDate(2024, 9, 14)

	cases := map[string]ports.EventInput{
		"missing name":     {StartDate: &start},
		"blank name":       {Name: ptr("  "), StartDate: &start},
		"missing start":    {Name: ptr("Desfile")},
		"end before start": {Name: ptr("Desfile"), StartDate: &start, EndDate: &before},
		"bad status":       {Name: ptr("Desfile"), StartDate: &start, Status: ptr(domain.Status("BORRADO"))},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestEventService_DeleteDeactivates(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, zerolog.Nop())
	start := domain.NewDate(2024, 1, 1)
	ev, _ := svc.Create(context.Background(), ports.EventInput{Name: ptr("Maraton"), StartDate: &start})

	if err := svc.Delete(context.Background(), ev.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := svc.Get(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("event should still exist: %v", err)
	}
	if got.Status != domain.StatusInactive {
		t.Fatalf("expected INACTIVO, got %s", got.Status)
	}

	inactive, _ := svc.ListInactive(context.Background())
	if len(inactive) != 1 {
		t.Fatalf("expected one inactive event, got %d", len(inactive))
	}

	if err := svc.Delete(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_UpdatePartial(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, zerolog.Nop())
	start := domain.NewDate(2024, 1, 1)
	ev, _ := svc.Create(context.Background(), ports.EventInput{Name: ptr("Maraton"), StartDate: &start, Location: ptr("Centro")})

	got, err := svc.Update(context.Background(), ev.ID, ports.EventInput{Description: ptr("Ruta 10K")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Maraton" || got.Location != "Centro" || got.Description != "Ruta 10K" {
		t.Fatalf("partial update lost fields: %+v", got)
	}
}

func TestEventService_Update_RejectsEmptyStartDate(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, zerolog.Nop())
	start := domain.NewDate(2024, 3, 10)
	ev, _ := svc.Create(context.Background(), ports.EventInput{Name: ptr("Simulacro"), StartDate: &start})

	var empty domain.Date
	if _, err := svc.Update(context.Background(), ev.ID, ports.EventInput{StartDate: &empty}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	got, _ := svc.Get(context.Background(), ev.ID)
	if got.StartDate.IsZero() {
		t.Fatal("start date should be kept")
	}
}
