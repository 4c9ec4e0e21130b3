package ports

import (
	"context"
	"time"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// IncidentRepository defines persistence operations for incidents.
type IncidentRepository interface {
	// Find returns the incidents of eventID matching criteria, newest first,
	// with their corporation, motive and evidences attached.
	Find(ctx context.Context, eventID int64, criteria domain.IncidentCriteria) ([]*domain.Incident, error)
	// FindByID returns the incident with its relations and creator/closer names.
	FindByID(ctx context.Context, id int64) (*domain.Incident, error)
	Create(ctx context.Context, inc *domain.Incident) error
	Update(ctx context.Context, inc *domain.Incident) error
	Close(ctx context.Context, id, closedBy int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// IdempotencyStore remembers which incident a client-supplied key produced.
type IdempotencyStore interface {
	// Claim reserves key for the caller. When the key is already held, claimed
	// is false and id is the incident it produced, or 0 while that request is
	// still running.
	Claim(ctx context.Context, key string) (id int64, claimed bool, err error)
	// Remember binds a claimed key to the incident it created.
	Remember(ctx context.Context, key string, id int64) error
	// Release frees a claim whose create failed.
	Release(ctx context.Context, key string) error
}

// IncidentInput is the DTO for creating or editing an incident. On update nil
// fields keep their stored value.
type IncidentInput struct {
	EventID       *int64
	Date          *domain.Date
	Time          *string
	CorporationID *int64
	MotiveID      *int64
	Location      *string
	Description   *string
	Status        *domain.IncidentStatus
}

// IncidentService exposes the incident use cases. Mutating operations take the
// acting principal and enforce the ownership policy.
type IncidentService interface {
	ListByEvent(ctx context.Context, eventID int64) ([]*domain.Incident, error)
	Filter(ctx context.Context, eventID int64, criteria domain.IncidentCriteria) ([]*domain.Incident, error)
	Get(ctx context.Context, id int64) (*domain.Incident, error)
	Stats(ctx context.Context, eventID int64) (*domain.IncidentStats, error)
	Create(ctx context.Context, actor *domain.Principal, in IncidentInput, idempotencyKey string) (*domain.Incident, error)
	Update(ctx context.Context, actor *domain.Principal, id int64, in IncidentInput) (*domain.Incident, error)
	Close(ctx context.Context, actor *domain.Principal, id int64) (*domain.Incident, error)
	Delete(ctx context.Context, actor *domain.Principal, id int64) error
}
