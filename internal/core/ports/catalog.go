package ports

import (
	"context"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// CatalogRepository persists one lookup table (corporations or motives).
type CatalogRepository interface {
	List(ctx context.Context, onlyActive bool) ([]domain.CatalogEntry, error)
	FindByID(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	// FindByName returns a domain.ErrNotFound error when no entry has that name.
	FindByName(ctx context.Context, name string) (*domain.CatalogEntry, error)
	Create(ctx context.Context, entry *domain.CatalogEntry) error
	Update(ctx context.Context, entry *domain.CatalogEntry) error
	// Delete removes the row; a row still referenced by incidents yields domain.ErrConflict.
	Delete(ctx context.Context, id int64) error
}

// CatalogInput carries the editable fields of a catalog entry.
type CatalogInput struct {
	Name   *string
	Status *domain.Status
}

type CatalogService interface {
	List(ctx context.Context) ([]domain.CatalogEntry, error)
	ListActive(ctx context.Context) ([]domain.CatalogEntry, error)
	Get(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	Create(ctx context.Context, in CatalogInput) (*domain.CatalogEntry, error)
	Update(ctx context.Context, id int64, in CatalogInput) (*domain.CatalogEntry, error)
	Toggle(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	Delete(ctx context.Context, id int64) error
}
