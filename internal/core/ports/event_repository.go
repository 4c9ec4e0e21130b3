package ports

import (
	"context"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// EventFilter selects events by status. Descending orders by start date newest first.
type EventFilter struct {
	Status     domain.Status
	Descending bool
}

// EventRepository handles event persistence.
type EventRepository interface {
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, error)
	FindByID(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, ev *domain.Event) error
	Update(ctx context.Context, ev *domain.Event) error
	SetStatus(ctx context.Context, id int64, status domain.Status) error
}
