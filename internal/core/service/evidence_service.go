package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/policy"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

type evidenceService struct {
	repo      ports.EvidenceRepository
	incidents ports.IncidentRepository
	files     ports.FileStorage
	audit     ports.AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

func NewEvidenceService(
	repo ports.EvidenceRepository,
	incidents ports.IncidentRepository,
	files ports.FileStorage,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.EvidenceService {
	return &evidenceService{
		repo:      repo,
		incidents: incidents,
		files:     files,
		audit:     audit,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *evidenceService) ListByIncident(ctx context.Context, incidentID int64) ([]*domain.Evidence, error) {
	return s.repo.ListByIncident(ctx, incidentID)
}

func (s *evidenceService) Get(ctx context.Context, id int64) (*domain.Evidence, error) {
	return s.repo.FindByID(ctx, id)
}

// Stats counts the evidences of an incident per file type.
func (s *evidenceService) Stats(ctx context.Context, incidentID int64) (*domain.EvidenceStats, error) {
	items, err := s.repo.ListByIncident(ctx, incidentID)
	if err != nil {
		return nil, fmt.Errorf("evidence stats: %w", err)
	}
	st := &domain.EvidenceStats{
		Total:     len(items),
		ByType:    map[domain.FileType]int{domain.FileJPG: 0, domain.FilePNG: 0, domain.FilePDF: 0},
		Evidences: items,
	}
	for _, ev := range items {
		st.ByType[ev.Type]++
	}
	return st, nil
}

// Upload stores a file for an incident. A capturista may only attach evidence
// to incidents they created.
func (s *evidenceService) Upload(ctx context.Context, actor *domain.Principal, in ports.UploadInput) (*domain.Evidence, error) {
	if err := policy.Authorize(actor, policy.Roles(editorRoles...)).Err(); err != nil {
		return nil, err
	}
	if in.Content == nil {
		return nil, domain.Invalid("file is required")
	}

	inc, err := s.incidents.FindByID(ctx, in.IncidentID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.Owner(inc.CreatedBy, editorRoles...)).Err(); err != nil {
		return nil, err
	}

	ft, content, err := sniffEvidence(in.Content)
	if err != nil {
		return nil, err
	}

	name := uuid.NewString() + ft.Extension()
	path, err := s.files.Save(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("store evidence file: %w", err)
	}

	ev := &domain.Evidence{
		IncidentID: inc.ID,
		UploadedBy: actor.UserID,
		Path:       path,
		Type:       ft,
		UploadedAt: s.now(),
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		s.removeFile(path)
		return nil, fmt.Errorf("create evidence: %w", err)
	}

	s.record(ctx, actor, domain.AuditEvidenceUploaded, ev.ID, map[string]any{
		"incident_id": inc.ID,
		"tipo":        string(ev.Type),
		"original":    in.Filename,
	})
	s.log.Info().Int64("evidence_id", ev.ID).Int64("incident_id", inc.ID).Str("type", string(ev.Type)).Msg("evidence uploaded")
	return ev, nil
}

// Open returns the stored payload of an evidence for streaming.
func (s *evidenceService) Open(ctx context.Context, id int64) (*ports.EvidenceFile, error) {
	ev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rc, err := s.files.Open(ev.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound("evidence file", id)
		}
		return nil, fmt.Errorf("open evidence %d: %w", id, err)
	}
	return &ports.EvidenceFile{Evidence: ev, Name: filepath.Base(ev.Path), Content: rc}, nil
}

// Delete removes the record; the stored file is removed on a best-effort basis.
func (s *evidenceService) Delete(ctx context.Context, actor *domain.Principal, id int64) error {
	if err := policy.Authorize(actor, policy.Roles(editorRoles...)).Err(); err != nil {
		return err
	}
	ev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.Owner(ev.UploadedBy, editorRoles...)).Err(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete evidence %d: %w", id, err)
	}
	s.removeFile(ev.Path)
	s.record(ctx, actor, domain.AuditEvidenceDeleted, id, map[string]any{"incident_id": ev.IncidentID})
	return nil
}

func (s *evidenceService) removeFile(path string) {
	if err := s.files.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to remove evidence file")
	}
}

func (s *evidenceService) record(ctx context.Context, actor *domain.Principal, action domain.AuditAction, id int64, details map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, domain.AuditEntry{
		Action:    action,
		Entity:    "evidence",
		EntityID:  id,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		At:        s.now(),
		Details:   details,
	})
}

// sniffLen matches the number of bytes mimetype inspects by default.
const sniffLen = 3072

// sniffEvidence detects the file type from the leading bytes of r and returns
// a reader that still yields the full content.
func sniffEvidence(r io.Reader) (domain.FileType, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", nil, domain.Invalid("file is required")
	}

	ft, ok := domain.FileTypeFromMIME(mimetype.Detect(head).String())
	if !ok {
		return "", nil, domain.Invalid("only JPG, PNG or PDF files are accepted")
	}
	return ft, io.MultiReader(bytes.NewReader(head), r), nil
}
