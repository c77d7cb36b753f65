package database

import (
	"io/fs"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

type MigrationLogger struct {
	ectologger.Logger
}

func (l MigrationLogger) Verbose() bool {
	return true
}

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

// MigrationService owns the database schema. Migrations are embedded in the
// binary so schema creation needs no working-directory assumptions.
type MigrationService struct {
	db     DB
	source fs.FS
	folder string
	logger ectologger.Logger
}

func NewMigrationService(db DB, source fs.FS, folder string, logger ectologger.Logger) *MigrationService {
	return &MigrationService{
		db:     db,
		source: source,
		folder: folder,
		logger: logger,
	}
}

func (ms *MigrationService) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(ms.source, ms.folder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open migration source")
	}

	driver, err := migratesqlite.WithInstance(ms.db.Unwrap().DB, &migratesqlite.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migrate instance")
	}

	m.Log = MigrationLogger{Logger: ms.logger}
	return m, nil
}

// Create applies all pending migrations. It is idempotent and safe to call at
// every process start.
func (ms *MigrationService) Create() error {
	m, err := ms.newMigrate()
	if err != nil {
		ms.logger.WithError(err).Error("failed to initialize migrations")
		return err
	}

	err = m.Up()
	if err == migrate.ErrNoChange {
		ms.logger.Info("no new migrations to apply")
		return nil
	}
	if err != nil {
		version, dirty, verErr := m.Version()
		if verErr != nil && verErr != migrate.ErrNilVersion {
			ms.logger.WithError(verErr).Error("failed to get current migration version")
		}
		ms.logger.WithError(err).Errorf("failed to apply migrations. Database version is dirty=%t at version %d", dirty, version)
		return err
	}

	ms.logger.Info("successfully applied migrations")
	return nil
}

// Reset drops every table and index, then recreates the schema from scratch.
// Irreversible; callers must gate it behind explicit confirmation.
func (ms *MigrationService) Reset() error {
	m, err := ms.newMigrate()
	if err != nil {
		ms.logger.WithError(err).Error("failed to initialize migrations")
		return err
	}

	if err := m.Drop(); err != nil {
		ms.logger.WithError(err).Error("failed to drop database schema")
		return errors.Wrap(err, "failed to drop schema")
	}

	// Drop removes the schema_migrations bookkeeping table too, so a fresh
	// migrate instance is required to recreate it.
	ms.logger.Warn("database schema dropped, recreating")
	m2, err := ms.newMigrate()
	if err != nil {
		return err
	}
	m2.Log = MigrationLogger{Logger: ms.logger}

	if err := m2.Up(); err != nil && err != migrate.ErrNoChange {
		ms.logger.WithError(err).Error("failed to recreate database schema")
		return errors.Wrap(err, "failed to recreate schema")
	}

	ms.logger.Info("database reset complete")
	return nil
}
