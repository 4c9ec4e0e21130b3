package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var _ ports.IncidentRepository = (*IncidentRepository)(nil)

const incidentSelect = `select i.id_incidencia, i.id_evento, i.fecha, i.hora::text, i.id_corporacion, i.id_motivo,
	i.ubicacion, i.descripcion, i.usuario_crea, i.usuario_cierra, i.fecha_cierre, i.estatus,
	e.nombre_evento, e.fecha_inicio, e.estatus,
	c.nombre_corporacion, c.estatus,
	m.nombre_motivo, m.estatus,
	uc.nombre, ux.nombre
from incidencias i
join eventos e on e.id_evento = i.id_evento
join corporaciones c on c.id_corporacion = i.id_corporacion
join motivos m on m.id_motivo = i.id_motivo
left join usuarios uc on uc.id_usuario = i.usuario_crea
left join usuarios ux on ux.id_usuario = i.usuario_cierra`

const incidentOrder = ` order by i.fecha desc, i.hora desc, i.id_incidencia asc`

// IncidentRepository implements ports.IncidentRepository and the incident query engine.
type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// buildIncidentQuery renders criteria as one parametrised statement. Every
// predicate is optional and AND-combined.
func buildIncidentQuery(eventID int64, c domain.IncidentCriteria) (string, []any) {
	args := []any{eventID}
	where := []string{"i.id_evento = $1"}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if c.ID != nil {
		add("i.id_incidencia = $%d", *c.ID)
	}
	if c.Description != "" {
		add("i.descripcion ilike '%%' || $%d || '%%'", escapeLike(c.Description))
	}
	if c.Date != nil {
		add("i.fecha = $%d", c.Date.String())
	}
	if c.CorporationID != nil {
		add("i.id_corporacion = $%d", *c.CorporationID)
	}
	if c.MotiveID != nil {
		add("i.id_motivo = $%d", *c.MotiveID)
	}
	if c.Status != "" {
		add("i.estatus = $%d", string(c.Status))
	}

	return incidentSelect + " where " + strings.Join(where, " and ") + incidentOrder, args
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func scanIncident(row rowScanner) (*domain.Incident, error) {
	var (
		inc         domain.Incident
		ev          domain.Event
		corp        domain.Corporation
		motive      domain.Motive
		closedBy    sql.NullInt64
		closedAt    sql.NullTime
		creatorName sql.NullString
		closerName  sql.NullString
	)
	err := row.Scan(
		&inc.ID, &inc.EventID, &inc.Date, &inc.Time, &inc.CorporationID, &inc.MotiveID,
		&inc.Location, &inc.Description, &inc.CreatedBy, &closedBy, &closedAt, &inc.Status,
		&ev.Name, &ev.StartDate, &ev.Status,
		&corp.Name, &corp.Status,
		&motive.Name, &motive.Status,
		&creatorName, &closerName,
	)
	if err != nil {
		return nil, err
	}

	ev.ID, corp.ID, motive.ID = inc.EventID, inc.CorporationID, inc.MotiveID
	inc.Event, inc.Corporation, inc.Motive = &ev, &corp, &motive
	inc.Creator = &domain.UserRef{ID: inc.CreatedBy, Name: creatorName.String}
	if closedBy.Valid {
		id := closedBy.Int64
		inc.ClosedBy = &id
		inc.Closer = &domain.UserRef{ID: id, Name: closerName.String}
	}
	if closedAt.Valid {
		at := closedAt.Time.UTC()
		inc.ClosedAt = &at
	}
	inc.Evidences = []*domain.Evidence{}
	return &inc, nil
}

// Find runs the incident query and attaches the evidences of the result set
// with one additional query.
func (r *IncidentRepository) Find(ctx context.Context, eventID int64, c domain.IncidentCriteria) ([]*domain.Incident, error) {
	query, args := buildIncidentQuery(eventID, c)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	items := []*domain.Incident{}
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachEvidences(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *IncidentRepository) FindByID(ctx context.Context, id int64) (*domain.Incident, error) {
	inc, err := scanIncident(r.db.QueryRowContext(ctx, incidentSelect+" where i.id_incidencia = $1", id))
	if err != nil {
		return nil, notFoundIfNoRows(err, "incident", id)
	}
	if err := r.attachEvidences(ctx, []*domain.Incident{inc}); err != nil {
		return nil, err
	}
	return inc, nil
}

func (r *IncidentRepository) attachEvidences(ctx context.Context, items []*domain.Incident) error {
	if len(items) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Incident, len(items))
	ids := make([]int64, 0, len(items))
	for _, inc := range items {
		byID[inc.ID] = inc
		ids = append(ids, inc.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		`select id_evidencia, id_incidencia, usuario_subio, ruta_archivo, tipo_archivo, fecha_subida
		 from evidencias where id_incidencia = any($1::bigint[])
		 order by fecha_subida desc, id_evidencia desc`,
		int64Array(ids))
	if err != nil {
		return fmt.Errorf("load evidences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev domain.Evidence
		if err := rows.Scan(&ev.ID, &ev.IncidentID, &ev.UploadedBy, &ev.Path, &ev.Type, &ev.UploadedAt); err != nil {
			return err
		}
		if inc, ok := byID[ev.IncidentID]; ok {
			inc.Evidences = append(inc.Evidences, &ev)
		}
	}
	return rows.Err()
}

func (r *IncidentRepository) Create(ctx context.Context, inc *domain.Incident) error {
	err := r.db.QueryRowContext(ctx,
		`insert into incidencias(id_evento, fecha, hora, id_corporacion, id_motivo, ubicacion, descripcion, usuario_crea, estatus)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9) returning id_incidencia`,
		inc.EventID, inc.Date, inc.Time, inc.CorporationID, inc.MotiveID, inc.Location, inc.Description, inc.CreatedBy, inc.Status,
	).Scan(&inc.ID)
	if err != nil {
		return mapWriteError(err, "incident")
	}
	return nil
}

// Update writes the editable columns. usuario_crea is never part of the statement.
func (r *IncidentRepository) Update(ctx context.Context, inc *domain.Incident) error {
	res, err := r.db.ExecContext(ctx,
		`update incidencias set id_evento=$2, fecha=$3, hora=$4, id_corporacion=$5, id_motivo=$6,
		 ubicacion=$7, descripcion=$8, estatus=$9
		 where id_incidencia=$1`,
		inc.ID, inc.EventID, inc.Date, inc.Time, inc.CorporationID, inc.MotiveID, inc.Location, inc.Description, inc.Status,
	)
	if err != nil {
		return mapWriteError(err, "incident")
	}
	return expectAffected(res, "incident", inc.ID)
}

func (r *IncidentRepository) Close(ctx context.Context, id, closedBy int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`update incidencias set estatus=$2, usuario_cierra=$3, fecha_cierre=$4 where id_incidencia=$1`,
		id, domain.IncidentClosed, closedBy, at,
	)
	if err != nil {
		return mapWriteError(err, "incident")
	}
	return expectAffected(res, "incident", id)
}

func (r *IncidentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from incidencias where id_incidencia=$1`, id)
	if err != nil {
		return mapDeleteError(err, "incident", id)
	}
	return expectAffected(res, "incident", id)
}
