package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/dentalsupply/inventory/internal/config"
)

// Migration files are JSON arrays of database commands (createIndexes,
// dropIndexes, ...) run in order by the golang-migrate mongodb driver.
//
//go:embed migrations/*.json
var migrationsFS embed.FS

// migrationsCollection records the applied version.
const migrationsCollection = "schema_migrations"

// migrateIface abstracts golang-migrate so the Migrator can be tested
// without a database.
type migrateIface interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

// Migrator applies the embedded index migrations.
type Migrator struct {
	m migrateIface
}

// NewMigrator opens a dedicated MongoDB connection for migrations. Close
// disconnects it, so it must not share the application's client.
func NewMigrator(ctx context.Context, cfg config.DatabaseConfig) (*Migrator, error) {
	client, err := NewMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	driver, err := mongodb.WithInstance(client, &mongodb.Config{
		DatabaseName:         cfg.Name,
		MigrationsCollection: migrationsCollection,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("creating migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "mongodb", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}

	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. Already-applied ones are skipped.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

// Down rolls back every migration, dropping all managed indexes.
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating down: %w", err)
	}
	return nil
}

// Steps applies n migrations; negative n rolls back.
func (m *Migrator) Steps(n int) error {
	if err := m.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating %d steps: %w", n, err)
	}
	return nil
}

// Version returns the applied version and dirty flag. No migrations
// applied yet reads as version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading migration version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the source and disconnects the migration client.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// RunMigrations applies all pending migrations. Safe to call on every
// startup.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig) error {
	m, err := NewMigrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			slog.Warn("closing migrator", slog.Any("error", err))
		}
	}()

	if err := m.Up(); err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	slog.Info("migrations applied",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}
