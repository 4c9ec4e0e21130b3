package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

const userColumns = `id_usuario, nombre, correo, password_hash, rol, estatus`

// UserRepository is the credential store.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+userColumns+` from usuarios where lower(correo) = lower($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundIfNoRows(err, "user", 0)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+userColumns+` from usuarios where id_usuario = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundIfNoRows(err, "user", id)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`select `+userColumns+` from usuarios order by id_usuario desc`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	err := r.db.QueryRowContext(ctx,
		`insert into usuarios(nombre, correo, password_hash, rol, estatus)
		 values($1,$2,$3,$4,$5) returning id_usuario`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Status,
	).Scan(&created.ID)
	if err != nil {
		return nil, mapWriteError(err, "user")
	}
	return &created, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`update usuarios set nombre=$2, correo=$3, password_hash=$4, rol=$5, estatus=$6
		 where id_usuario=$1`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Status,
	)
	if err != nil {
		return mapWriteError(err, "user")
	}
	return expectAffected(res, "user", user.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from usuarios where id_usuario=$1`, id)
	if err != nil {
		return mapDeleteError(err, "user", id)
	}
	return expectAffected(res, "user", id)
}
