package ports

import (
	"context"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// EventInput is the DTO passed from the transport layer to EventService.
// Nil pointers leave the stored value untouched on update.
type EventInput struct {
	Name        *string
	StartDate   *domain.Date
	EndDate     *domain.Date
	Location    *string
	Description *string
	Status      *domain.Status
}

// EventService manages the reporting periods incidents are logged against.
type EventService interface {
	ListActive(ctx context.Context) ([]*domain.Event, error)
	ListInactive(ctx context.Context) ([]*domain.Event, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, in EventInput) (*domain.Event, error)
	Update(ctx context.Context, id int64, in EventInput) (*domain.Event, error)
	// Delete deactivates the event; its incidents are kept.
	Delete(ctx context.Context, id int64) error
}
