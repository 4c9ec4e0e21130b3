package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var _ ports.EvidenceRepository = (*EvidenceRepository)(nil)

const evidenceSelect = `select ev.id_evidencia, ev.id_incidencia, ev.usuario_subio, ev.ruta_archivo, ev.tipo_archivo, ev.fecha_subida, u.nombre
from evidencias ev
left join usuarios u on u.id_usuario = ev.usuario_subio`

// EvidenceRepository implements ports.EvidenceRepository.
type EvidenceRepository struct {
	db *sql.DB
}

func NewEvidenceRepository(db *sql.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

func scanEvidence(row rowScanner) (*domain.Evidence, error) {
	var (
		ev   domain.Evidence
		name sql.NullString
	)
	if err := row.Scan(&ev.ID, &ev.IncidentID, &ev.UploadedBy, &ev.Path, &ev.Type, &ev.UploadedAt, &name); err != nil {
		return nil, err
	}
	ev.UploadedAt = ev.UploadedAt.UTC()
	ev.Uploader = &domain.UserRef{ID: ev.UploadedBy, Name: name.String}
	return &ev, nil
}

func (r *EvidenceRepository) ListByIncident(ctx context.Context, incidentID int64) ([]*domain.Evidence, error) {
	rows, err := r.db.QueryContext(ctx,
		evidenceSelect+` where ev.id_incidencia = $1 order by ev.fecha_subida desc, ev.id_evidencia desc`, incidentID)
	if err != nil {
		return nil, fmt.Errorf("list evidences: %w", err)
	}
	defer rows.Close()

	items := []*domain.Evidence{}
	for rows.Next() {
		ev, err := scanEvidence(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ev)
	}
	return items, rows.Err()
}

func (r *EvidenceRepository) FindByID(ctx context.Context, id int64) (*domain.Evidence, error) {
	ev, err := scanEvidence(r.db.QueryRowContext(ctx, evidenceSelect+` where ev.id_evidencia = $1`, id))
	if err != nil {
		return nil, notFoundIfNoRows(err, "evidence", id)
	}
	return ev, nil
}

func (r *EvidenceRepository) Create(ctx context.Context, ev *domain.Evidence) error {
	err := r.db.QueryRowContext(ctx,
		`insert into evidencias(id_incidencia, usuario_subio, ruta_archivo, tipo_archivo, fecha_subida)
		 values($1,$2,$3,$4,$5) returning id_evidencia`,
		ev.IncidentID, ev.UploadedBy, ev.Path, ev.Type, ev.UploadedAt,
	).Scan(&ev.ID)
	if err != nil {
		return mapWriteError(err, "evidence")
	}
	return nil
}

func (r *EvidenceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from evidencias where id_evidencia=$1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "evidence", id)
}
