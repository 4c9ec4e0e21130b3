package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

// catalogTable names the columns of a lookup table. Values are compile-time
// constants and safe to splice into statements.
type catalogTable struct {
	entity string
	table  string
	id     string
	name   string
}

var (
	corporationsTable = catalogTable{entity: "corporation", table: "corporaciones", id: "id_corporacion", name: "nombre_corporacion"}
	motivesTable      = catalogTable{entity: "motive", table: "motivos", id: "id_motivo", name: "nombre_motivo"}
)

// CatalogRepository persists corporations or motives.
type CatalogRepository struct {
	db *sql.DB
	t  catalogTable
}

func NewCorporationRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db, t: corporationsTable}
}

func NewMotiveRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db, t: motivesTable}
}

func (r *CatalogRepository) selectSQL() string {
	return fmt.Sprintf("select %s, %s, estatus from %s", r.t.id, r.t.name, r.t.table)
}

func scanEntry(row rowScanner) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry
	if err := row.Scan(&e.ID, &e.Name, &e.Status); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *CatalogRepository) List(ctx context.Context, onlyActive bool) ([]domain.CatalogEntry, error) {
	query := r.selectSQL()
	var args []any
	if onlyActive {
		query += " where estatus = $1"
		args = append(args, domain.StatusActive)
	}
	query += fmt.Sprintf(" order by %s asc", r.t.name)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.table, err)
	}
	defer rows.Close()

	entries := []domain.CatalogEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx,
		r.selectSQL()+fmt.Sprintf(" where %s = $1", r.t.id), id))
	if err != nil {
		return nil, notFoundIfNoRows(err, r.t.entity, id)
	}
	return e, nil
}

func (r *CatalogRepository) FindByName(ctx context.Context, name string) (*domain.CatalogEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx,
		r.selectSQL()+fmt.Sprintf(" where lower(%s) = lower($1)", r.t.name), name))
	if err != nil {
		return nil, notFoundIfNoRows(err, r.t.entity, 0)
	}
	return e, nil
}

func (r *CatalogRepository) Create(ctx context.Context, e *domain.CatalogEntry) error {
	query := fmt.Sprintf("insert into %s(%s, estatus) values($1,$2) returning %s", r.t.table, r.t.name, r.t.id)
	if err := r.db.QueryRowContext(ctx, query, e.Name, e.Status).Scan(&e.ID); err != nil {
		return mapWriteError(err, r.t.entity)
	}
	return nil
}

func (r *CatalogRepository) Update(ctx context.Context, e *domain.CatalogEntry) error {
	query := fmt.Sprintf("update %s set %s=$2, estatus=$3 where %s=$1", r.t.table, r.t.name, r.t.id)
	res, err := r.db.ExecContext(ctx, query, e.ID, e.Name, e.Status)
	if err != nil {
		return mapWriteError(err, r.t.entity)
	}
	return expectAffected(res, r.t.entity, e.ID)
}

func (r *CatalogRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("delete from %s where %s=$1", r.t.table, r.t.id)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapDeleteError(err, r.t.entity, id)
	}
	return expectAffected(res, r.t.entity, id)
}
