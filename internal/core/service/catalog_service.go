package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

// CatalogService manages one lookup table. Corporations and motives share the
// same rules and differ only in the entity name used in messages.
type CatalogService struct {
	repo   ports.CatalogRepository
	entity string
	log    zerolog.Logger
}

func NewCatalogService(repo ports.CatalogRepository, entity string, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, entity: entity, log: log}
}

// List returns every entry ordered by name.
func (s *CatalogService) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.repo.List(ctx, false)
}

// ListActive returns the entries that can be referenced by new incidents.
func (s *CatalogService) ListActive(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.repo.List(ctx, true)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in ports.CatalogInput) (*domain.CatalogEntry, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid(s.entity + " name is required")
	}
	entry := &domain.CatalogEntry{Status: domain.StatusActive}
	if err := s.apply(ctx, entry, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.entity, err)
	}
	s.log.Info().Str("entity", s.entity).Int64("id", entry.ID).Msg("catalog entry created")
	return entry, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, in ports.CatalogInput) (*domain.CatalogEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, entry, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", s.entity, id, err)
	}
	return entry, nil
}

// Toggle flips the entry between ACTIVO and INACTIVO.
func (s *CatalogService) Toggle(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Status = entry.Status.Toggle()
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("toggle %s %d: %w", s.entity, id, err)
	}
	return entry, nil
}

// Delete removes the entry. Entries still referenced by incidents yield a
// Conflict and must be deactivated with Toggle instead.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Conflict(fmt.Sprintf("%s %d is referenced by incidents; deactivate it instead", s.entity, id))
		}
		return fmt.Errorf("delete %s %d: %w", s.entity, id, err)
	}
	s.log.Info().Str("entity", s.entity).Int64("id", id).Msg("catalog entry deleted")
	return nil
}

func (s *CatalogService) apply(ctx context.Context, entry *domain.CatalogEntry, in ports.CatalogInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Invalid(s.entity + " name cannot be empty")
		}
		if !strings.EqualFold(name, entry.Name) {
			existing, err := s.repo.FindByName(ctx, name)
			switch {
			case err == nil && existing.ID != entry.ID:
				return domain.Conflict(fmt.Sprintf("%s %q already exists", s.entity, name))
			case err != nil && !errors.Is(err, domain.ErrNotFound):
				return fmt.Errorf("lookup %s: %w", s.entity, err)
			}
		}
		entry.Name = name
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.Invalid(fmt.Sprintf("invalid estatus %q", *in.Status))
		}
		entry.Status = *in.Status
	}
	return nil
}
