package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// ListActive returns active events, earliest start first.
func (s *eventService) ListActive(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.List(ctx, ports.EventFilter{Status: domain.StatusActive})
}

// ListInactive returns inactive events, latest start first.
func (s *eventService) ListInactive(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.List(ctx, ports.EventFilter{Status: domain.StatusInactive, Descending: true})
}

func (s *eventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) Create(ctx context.Context, in ports.EventInput) (*domain.Event, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("nombre_evento is required")
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		return nil, domain.Invalid("fecha_inicio is required")
	}

	ev := &domain.Event{Status: domain.StatusActive}
	if err := applyEventInput(ev, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Info().Int64("event_id", ev.ID).Str("name", ev.Name).Msg("event created")
	return ev, nil
}

func (s *eventService) Update(ctx context.Context, id int64, in ports.EventInput) (*domain.Event, error) {
	ev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyEventInput(ev, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	return ev, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetStatus(ctx, id, domain.StatusInactive); err != nil {
		return fmt.Errorf("deactivate event %d: %w", id, err)
	}
	s.log.Info().Int64("event_id", id).Msg("event deactivated")
	return nil
}

func applyEventInput(ev *domain.Event, in ports.EventInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Invalid("nombre_evento cannot be empty")
		}
		ev.Name = name
	}
	if in.StartDate != nil {
		if in.StartDate.IsZero() {
			return domain.Invalid("fecha_inicio cannot be empty")
		}
		ev.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		if in.EndDate.IsZero() {
			ev.EndDate = nil
		} else {
			end := *in.EndDate
			ev.EndDate = &end
		}
	}
	if in.Location != nil {
		ev.Location = strings.TrimSpace(*in.Location)
	}
	if in.Description != nil {
		ev.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.Invalid(fmt.Sprintf("invalid estatus %q", *in.Status))
		}
		ev.Status = *in.Status
	}
	if ev.EndDate != nil && ev.EndDate.Before(ev.StartDate.Time) {
		return domain.Invalid("fecha_fin cannot be before fecha_inicio")
	}
	return nil
}
