package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jonesrussell/north-cloud/review-responder/migrations"
)

// Migration directions.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// ErrInvalidDirection is returned for a direction other than up or down.
var ErrInvalidDirection = errors.New(`direction must be "up" or "down"`)

// Migrate applies the embedded migrations to the database at url. It
// reports whether any migration ran.
func Migrate(url, direction string) (bool, error) {
	if direction != MigrateUp && direction != MigrateDown {
		return false, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return false, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return false, fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == MigrateUp {
		err = m.Up()
	} else {
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migration %s: %w", direction, err)
	}
	return true, nil
}
