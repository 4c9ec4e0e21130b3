package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/policy"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var editorRoles = []domain.Role{domain.RoleAdmin, domain.RoleCapturista}

type incidentService struct {
	repo  ports.IncidentRepository
	keys  ports.IdempotencyStore
	audit ports.AuditRecorder
	log   zerolog.Logger
	now   func() time.Time
}

// NewIncidentService returns an IncidentService. keys may be nil, in which case
// Idempotency-Key headers are ignored.
func NewIncidentService(repo ports.IncidentRepository, keys ports.IdempotencyStore, audit ports.AuditRecorder, log zerolog.Logger) ports.IncidentService {
	return &incidentService{
		repo:  repo,
		keys:  keys,
		audit: audit,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *incidentService) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Incident, error) {
	return s.repo.Find(ctx, eventID, domain.IncidentCriteria{})
}

// Filter returns the incidents of eventID satisfying every predicate in
// criteria, newest first.
func (s *incidentService) Filter(ctx context.Context, eventID int64, criteria domain.IncidentCriteria) ([]*domain.Incident, error) {
	if criteria.Status != "" && !criteria.Status.Valid() {
		return nil, domain.Invalid(fmt.Sprintf("invalid estatus %q", criteria.Status))
	}
	return s.repo.Find(ctx, eventID, criteria)
}

func (s *incidentService) Get(ctx context.Context, id int64) (*domain.Incident, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *incidentService) Stats(ctx context.Context, eventID int64) (*domain.IncidentStats, error) {
	items, err := s.repo.Find(ctx, eventID, domain.IncidentCriteria{})
	if err != nil {
		return nil, fmt.Errorf("incident stats: %w", err)
	}
	st := domain.ComputeIncidentStats(items)
	return &st, nil
}

// Create records a new incident owned by actor. A repeated idempotencyKey
// returns the incident created the first time without side effects.
func (s *incidentService) Create(ctx context.Context, actor *domain.Principal, in ports.IncidentInput, idempotencyKey string) (*domain.Incident, error) {
	if err := policy.Authorize(actor, policy.Roles(editorRoles...)).Err(); err != nil {
		return nil, err
	}

	if err := requireIncidentFields(in); err != nil {
		return nil, err
	}

	inc := &domain.Incident{Status: domain.IncidentOpen, CreatedBy: actor.UserID}
	if err := applyIncidentInput(inc, in); err != nil {
		return nil, err
	}

	key := scopedKey(actor, idempotencyKey)
	claimed := false
	if key != "" && s.keys != nil {
		id, ok, err := s.keys.Claim(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("idempotency claim failed, creating anyway")
		case ok:
			claimed = true
		case id > 0:
			s.log.Info().Str("idempotency_key", idempotencyKey).Int64("incident_id", id).Msg("idempotent replay")
			return s.repo.FindByID(ctx, id)
		default:
			return nil, domain.Conflict("a request with this Idempotency-Key is still in progress")
		}
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		if claimed {
			if rerr := s.keys.Release(ctx, key); rerr != nil {
				s.log.Warn().Err(rerr).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("create incident: %w", err)
	}

	if claimed {
		if err := s.keys.Remember(ctx, key, inc.ID); err != nil {
			s.log.Warn().Err(err).Int64("incident_id", inc.ID).Msg("failed to store idempotency key")
		}
	}

	s.record(ctx, actor, domain.AuditIncidentCreated, inc.ID, map[string]any{"event_id": inc.EventID})
	s.log.Info().Int64("incident_id", inc.ID).Int64("event_id", inc.EventID).Int64("user_id", actor.UserID).Msg("incident created")

	return s.reload(ctx, inc)
}

// Update edits an incident. Only an ADMIN or the capturista who created it may
// do so; the creator never changes.
func (s *incidentService) Update(ctx context.Context, actor *domain.Principal, id int64, in ports.IncidentInput) (*domain.Incident, error) {
	inc, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := applyIncidentInput(inc, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, fmt.Errorf("update incident %d: %w", id, err)
	}

	s.record(ctx, actor, domain.AuditIncidentUpdated, id, map[string]any{"estatus": string(inc.Status)})
	return s.reload(ctx, inc)
}

// Close marks the incident CERRADA and stamps the closer and close time.
// Closing an already closed incident succeeds and overwrites both stamps.
func (s *incidentService) Close(ctx context.Context, actor *domain.Principal, id int64) (*domain.Incident, error) {
	inc, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.repo.Close(ctx, id, actor.UserID, at); err != nil {
		return nil, fmt.Errorf("close incident %d: %w", id, err)
	}

	inc.Status = domain.IncidentClosed
	inc.ClosedBy = &actor.UserID
	inc.ClosedAt = &at

	s.record(ctx, actor, domain.AuditIncidentClosed, id, nil)
	s.log.Info().Int64("incident_id", id).Int64("user_id", actor.UserID).Msg("incident closed")
	return s.reload(ctx, inc)
}

// Delete removes the incident and, by cascade, its evidence records. ADMIN only.
func (s *incidentService) Delete(ctx context.Context, actor *domain.Principal, id int64) error {
	if err := policy.Authorize(actor, policy.Roles(domain.RoleAdmin)).Err(); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete incident %d: %w", id, err)
	}
	s.record(ctx, actor, domain.AuditIncidentDeleted, id, nil)
	return nil
}

func (s *incidentService) authorizeOwner(ctx context.Context, actor *domain.Principal, id int64) (*domain.Incident, error) {
	if err := policy.Authorize(actor, policy.Roles(editorRoles...)).Err(); err != nil {
		return nil, err
	}
	inc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.Owner(inc.CreatedBy, editorRoles...)).Err(); err != nil {
		s.log.Debug().Int64("incident_id", id).Int64("user_id", actor.UserID).Msg("ownership denied")
		return nil, err
	}
	return inc, nil
}

func (s *incidentService) reload(ctx context.Context, inc *domain.Incident) (*domain.Incident, error) {
	full, err := s.repo.FindByID(ctx, inc.ID)
	if err != nil {
		s.log.Warn().Err(err).Int64("incident_id", inc.ID).Msg("reload after write failed")
		return inc, nil
	}
	return full, nil
}

func (s *incidentService) record(ctx context.Context, actor *domain.Principal, action domain.AuditAction, id int64, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, domain.AuditEntry{
		Action:    action,
		Entity:    "incident",
		EntityID:  id,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		At:        s.now(),
		Details:   details,
	})
}

// scopedKey namespaces an idempotency key by user so two users cannot collide.
func scopedKey(actor *domain.Principal, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%d:%s", actor.UserID, key)
}

func requireIncidentFields(in ports.IncidentInput) error {
	var missing []string
	if in.EventID == nil {
		missing = append(missing, "id_evento")
	}
	if in.Date == nil || in.Date.IsZero() {
		missing = append(missing, "fecha")
	}
	if in.Time == nil || strings.TrimSpace(*in.Time) == "" {
		missing = append(missing, "hora")
	}
	if in.CorporationID == nil {
		missing = append(missing, "id_corporacion")
	}
	if in.MotiveID == nil {
		missing = append(missing, "id_motivo")
	}
	if in.Location == nil || strings.TrimSpace(*in.Location) == "" {
		missing = append(missing, "ubicacion")
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		missing = append(missing, "descripcion")
	}
	if len(missing) > 0 {
		return domain.Invalid("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func applyIncidentInput(inc *domain.Incident, in ports.IncidentInput) error {
	if in.EventID != nil {
		inc.EventID = *in.EventID
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return domain.Invalid("fecha cannot be empty")
		}
		inc.Date = *in.Date
	}
	if in.Time != nil {
		clock, err := domain.NormalizeClock(*in.Time)
		if err != nil {
			return err
		}
		inc.Time = clock
	}
	if in.CorporationID != nil {
		inc.CorporationID = *in.CorporationID
	}
	if in.MotiveID != nil {
		inc.MotiveID = *in.MotiveID
	}
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if loc == "" {
			return domain.Invalid("ubicacion cannot be empty")
		}
		inc.Location = loc
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return domain.Invalid("descripcion cannot be empty")
		}
		inc.Description = desc
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return domain.Invalid(fmt.Sprintf("invalid estatus %q", *in.Status))
		}
		inc.Status = *in.Status
	}
	return nil
}
