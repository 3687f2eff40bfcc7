package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migrateIface interface {
	Up() error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m migrateIface
}

// NewMigrator opens a dedicated connection for dsn; the driver closes it
// together with the migrator.
func NewMigrator(dsn string, dbName string) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create migration source failed: %w", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("open migration connection failed: %w", err)
	}

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{DatabaseName: dbName})
	if err != nil {
		_ = source.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create migration driver failed: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("initialize migrator failed: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. It is a no-op on an up to date schema.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// Version returns 0 when no migration has been applied yet.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version failed: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
