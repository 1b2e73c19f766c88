// Package sqlstore implementa los repositorios sobre database/sql, para Postgres (pgx)
// y SQLite embebido (modernc). Las queries usan placeholders ? que se
// reescriben según el dialecto.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB es un pool de conexiones junto con el dialecto de sus queries.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open conecta a dsn. En SQLite dsn es un path de archivo y se crea su directorio.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case Postgres:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetConnMaxLifetime(30 * time.Minute)
	case SQLite:
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, err
		}
		// un solo writer; los pragmas son por conexión
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Rebind reescribe los ? como $1..$n para Postgres.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn asocia un querier (pool o transacción) a un dialecto.
type conn struct {
	q       querier
	dialect Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.q.ExecContext(ctx, c.dialect.Rebind(query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.q.QueryContext(ctx, c.dialect.Rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.dialect.Rebind(query), args...)
}

func (d *DB) conn() conn {
	return conn{q: d.DB, dialect: d.Dialect}
}

// inTx corre fn en una transacción y hace rollback si fn falla.
func (d *DB) inTx(ctx context.Context, fn func(c conn) error) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(conn{q: tx, dialect: d.Dialect}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func affected(res sql.Result) int64 {
	n, _ := res.RowsAffected()
	return n
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
