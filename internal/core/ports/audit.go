package ports

import (
	"context"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

// AuditRecorder accepts audit entries without blocking the caller. Recording is
// best effort and never fails the originating request.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
