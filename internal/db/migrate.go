package db

import (
	"errors"
	"fmt"
	"io/fs"

	"bizadmin/internal/config"
	mysqlmigrations "bizadmin/migrations/mysql"
	pgmigrations "bizadmin/migrations/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationStatus is what `migrate version` prints.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	None    bool
}

// Migrator runs the embedded schema migrations for one dialect.
type Migrator struct {
	m *migrate.Migrate
}

func migrationFS(driver string) (fs.FS, error) {
	switch driver {
	case config.DriverPostgres:
		return pgmigrations.FS, nil
	case config.DriverMySQL, "":
		return mysqlmigrations.FS, nil
	}
	return nil, fmt.Errorf("db: no migrations for driver %q", driver)
}

func NewMigrator(cfg config.DatabaseConfig) (*Migrator, error) {
	fsys, err := migrationFS(cfg.Driver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("db: migration source: %w", err)
	}
	url, err := cfg.MigrationURL()
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("db: migrate init: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration; an up-to-date schema is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: migrate up: %w", err)
	}
	return nil
}

// Down rolls back the given number of steps.
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		steps = 1
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: migrate down: %w", err)
	}
	return nil
}

func (mg *Migrator) Status() (MigrationStatus, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{None: true}, nil
	}
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("db: migrate version: %w", err)
	}
	return MigrationStatus{Version: v, Dirty: dirty}, nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}
