package database

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations brings the schema up to date. An empty dir uses the
// migrations embedded in the binary.
func RunMigrations(dsn, dir string) error {
	m, err := newMigrate(dsn, dir)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer m.Close()

	if _, dirty, err := m.Version(); err == nil && dirty {
		return errors.New("migration: base marquée dirty, corriger à la main avant de relancer")
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, _, _ := m.Version()
	log.Printf("✅ Migrations appliquées (version=%d)", version)
	return nil
}

func newMigrate(dsn, dir string) (*migrate.Migrate, error) {
	if dir != "" {
		return migrate.New("file://"+dir, dsn)
	}
	src, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", src, dsn)
}
