package postgres

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/proteccion-civil/incident-system/internal/core/domain"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrNotNullViolation    = "23502"
)

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// mapWriteError translates constraint violations raised by inserts and updates.
func mapWriteError(err error, entity string) error {
	if pgErr, ok := maybePgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return domain.Conflict(entity + " already exists")
		case pgErrForeignKeyViolation:
			return domain.Invalid("referenced entity missing: " + pgErr.ConstraintName)
		case pgErrNotNullViolation:
			return domain.Invalid(pgErr.ColumnName + " is required")
		}
	}
	return err
}

// mapDeleteError reports rows that are still referenced as a Conflict.
func mapDeleteError(err error, entity string, id int64) error {
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
		return domain.Conflict(entity + " " + strconv.FormatInt(id, 10) + " is still referenced")
	}
	return err
}

func notFoundIfNoRows(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(entity, id)
	}
	return err
}

func expectAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(entity, id)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// int64Array renders ids as a PostgreSQL array literal for use with ANY($n::bigint[]).
func int64Array(ids []int64) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	b.WriteByte('}')
	return b.String()
}
