package ports

import (
	"context"
	"io"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// EvidenceRepository defines persistence operations for evidence records.
type EvidenceRepository interface {
	// ListByIncident returns the evidences of an incident, newest first.
	ListByIncident(ctx context.Context, incidentID int64) ([]*domain.Evidence, error)
	FindByID(ctx context.Context, id int64) (*domain.Evidence, error)
	Create(ctx context.Context, ev *domain.Evidence) error
	Delete(ctx context.Context, id int64) error
}

// FileStorage stores evidence payloads. Paths returned by Save are opaque to callers.
type FileStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (path string, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// UploadInput describes a file received for an incident. The evidence type
// is detected from Content, never from Filename.
type UploadInput struct {
	IncidentID int64
	Filename   string
	Content    io.Reader
}

// EvidenceFile is an opened evidence payload ready to stream.
type EvidenceFile struct {
	Evidence *domain.Evidence
	Name     string
	Content  io.ReadCloser
}

type EvidenceService interface {
	ListByIncident(ctx context.Context, incidentID int64) ([]*domain.Evidence, error)
	Get(ctx context.Context, id int64) (*domain.Evidence, error)
	Stats(ctx context.Context, incidentID int64) (*domain.EvidenceStats, error)
	Upload(ctx context.Context, actor *domain.Principal, in UploadInput) (*domain.Evidence, error)
	Open(ctx context.Context, id int64) (*EvidenceFile, error)
	Delete(ctx context.Context, actor *domain.Principal, id int64) error
}
