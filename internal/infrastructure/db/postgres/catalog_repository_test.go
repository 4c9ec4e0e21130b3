package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

func TestCatalogRepository_ListActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCorporationRepository(db)

	mock.ExpectQuery("select id_corporacion, nombre_corporacion, estatus from corporaciones where estatus = \\$1 order by nombre_corporacion asc").
		WithArgs("ACTIVO").
		WillReturnRows(sqlmock.NewRows([]string{"id_corporacion", "nombre_corporacion", "estatus"}).
			AddRow(int64(2), "Bomberos", "ACTIVO").
			AddRow(int64(1), "Policia", "ACTIVO"))

	items, err := repo.List(context.Background(), true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Bomberos" || items[0].Status != domain.StatusActive {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestCatalogRepository_DeleteReferenced(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMotiveRepository(db)

	mock.ExpectExec("delete from motivos where id_motivo").
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Delete(context.Background(), 3)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCatalogRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMotiveRepository(db)

	mock.ExpectQuery("insert into motivos\\(nombre_motivo, estatus\\)").
		WithArgs("Robo", "ACTIVO").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &domain.CatalogEntry{Name: "Robo", Status: domain.StatusActive})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCatalogRepository_FindByIDMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCorporationRepository(db)

	mock.ExpectQuery("from corporaciones where id_corporacion").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id_corporacion", "nombre_corporacion", "estatus"}))

	if _, err := repo.FindByID(context.Background(), 8); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
