package sqlstore

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	sqlitePrimaryConstraint = 19
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlitePrimaryConstraint:
			return strings.Contains(sqErr.Error(), "UNIQUE")
		}
	}
	return false
}

func isForeignKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		switch sqErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return true
		case sqlitePrimaryConstraint:
			return strings.Contains(sqErr.Error(), "FOREIGN KEY")
		}
	}
	return false
}
