package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var _ ports.EventRepository = (*EventRepository)(nil)

const eventColumns = `id_evento, nombre_evento, fecha_inicio, fecha_fin, ubicacion, descripcion, estatus`

// EventRepository implements ports.EventRepository.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		ev          domain.Event
		end         domain.Date
		location    sql.NullString
		description sql.NullString
	)
	if err := row.Scan(&ev.ID, &ev.Name, &ev.StartDate, &end, &location, &description, &ev.Status); err != nil {
		return nil, err
	}
	if !end.IsZero() {
		ev.EndDate = &end
	}
	ev.Location = location.String
	ev.Description = description.String
	return &ev, nil
}

func (r *EventRepository) List(ctx context.Context, f ports.EventFilter) ([]*domain.Event, error) {
	order := "asc"
	if f.Descending {
		order = "desc"
	}
	rows, err := r.db.QueryContext(ctx,
		`select `+eventColumns+` from eventos where estatus = $1 order by fecha_inicio `+order+`, id_evento `+order,
		f.Status)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	ev, err := scanEvent(r.db.QueryRowContext(ctx,
		`select `+eventColumns+` from eventos where id_evento = $1`, id))
	if err != nil {
		return nil, notFoundIfNoRows(err, "event", id)
	}
	return ev, nil
}

func (r *EventRepository) Create(ctx context.Context, ev *domain.Event) error {
	err := r.db.QueryRowContext(ctx,
		`insert into eventos(nombre_evento, fecha_inicio, fecha_fin, ubicacion, descripcion, estatus)
		 values($1,$2,$3,$4,$5,$6) returning id_evento`,
		ev.Name, ev.StartDate, endDateArg(ev), nullIfEmpty(ev.Location), nullIfEmpty(ev.Description), ev.Status,
	).Scan(&ev.ID)
	if err != nil {
		return mapWriteError(err, "event")
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, ev *domain.Event) error {
	res, err := r.db.ExecContext(ctx,
		`update eventos set nombre_evento=$2, fecha_inicio=$3, fecha_fin=$4, ubicacion=$5, descripcion=$6, estatus=$7
		 where id_evento=$1`,
		ev.ID, ev.Name, ev.StartDate, endDateArg(ev), nullIfEmpty(ev.Location), nullIfEmpty(ev.Description), ev.Status,
	)
	if err != nil {
		return mapWriteError(err, "event")
	}
	return expectAffected(res, "event", ev.ID)
}

func (r *EventRepository) SetStatus(ctx context.Context, id int64, status domain.Status) error {
	res, err := r.db.ExecContext(ctx, `update eventos set estatus=$2 where id_evento=$1`, id, status)
	if err != nil {
		return err
	}
	return expectAffected(res, "event", id)
}

func endDateArg(ev *domain.Event) any {
	if ev.EndDate == nil {
		return nil
	}
	return *ev.EndDate
}
