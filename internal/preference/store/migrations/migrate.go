// Package migrations applies the embedded preference schema.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hashicorp/go-multierror"
	_ "github.com/lib/pq"
)

// MigrationsTable records applied versions.
const MigrationsTable = "tonetags_schema_migrations"

//go:embed *.sql
var migrationFiles embed.FS

// Up applies all pending up migrations on a dedicated connection pool that is
// closed before returning.
func Up(databaseURL string) (err error) {
	m, err := open(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		err = closeMigrate(m, err)
	}()

	_, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return errors.New("migration is dirty, please fix it before proceeding")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Version reports the applied schema version; zero means nothing is applied.
func Version(databaseURL string) (version uint, dirty bool, err error) {
	m, err := open(databaseURL)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		err = closeMigrate(m, err)
	}()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func open(databaseURL string) (*migrate.Migrate, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	m, err := newMigrate(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// closeMigrate closes the source and the database (the driver owns db).
func closeMigrate(m *migrate.Migrate, err error) error {
	srcErr, dbErr := m.Close()
	var result *multierror.Error
	if err != nil {
		result = multierror.Append(result, err)
	}
	if srcErr != nil {
		result = multierror.Append(result, fmt.Errorf("close migration source: %w", srcErr))
	}
	if dbErr != nil {
		result = multierror.Append(result, fmt.Errorf("close migration database: %w", dbErr))
	}
	return result.ErrorOrNil()
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
