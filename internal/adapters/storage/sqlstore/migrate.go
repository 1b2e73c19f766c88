package sqlstore

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// Migrator es la parte de *migrate.Migrate que necesita el runner.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine construye un Migrator; los tests lo reemplazan para no tocar una base.
type MigrationEngine func(src source.Driver, databaseURL string) (Migrator, error)

func DefaultEngine(src source.Driver, databaseURL string) (Migrator, error) {
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// Migrate aplica las migraciones pendientes del dialecto. Abre su propia conexión.
func Migrate(dialect Dialect, dsn string, engine MigrationEngine) (err error) {
	if engine == nil {
		engine = DefaultEngine
	}

	dir, dbURL, err := migrationTarget(dialect, dsn)
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	m, err := engine(src, dbURL)
	if err != nil {
		return fmt.Errorf("migration engine: %w", err)
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("migration source: %w", serr))
		}
		if dberr != nil {
			err = errors.Join(err, fmt.Errorf("migration database: %w", dberr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

func migrationTarget(dialect Dialect, dsn string) (dir, dbURL string, err error) {
	switch dialect {
	case Postgres:
		u := dsn
		for _, p := range []string{"postgresql://", "postgres://"} {
			if strings.HasPrefix(u, p) {
				u = "pgx5://" + strings.TrimPrefix(u, p)
				break
			}
		}
		if !strings.HasPrefix(u, "pgx5://") {
			return "", "", fmt.Errorf("postgres migrations need a URL dsn, got %q", dsn)
		}
		return "migrations/postgres", u, nil
	case SQLite:
		return "migrations/sqlite", "sqlite://" + dsn, nil
	}
	return "", "", fmt.Errorf("unsupported dialect %q", dialect)
}
