package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the query/exec surface the repositories depend on. It is satisfied by
// *sqlx.DB and by DatabaseInstance.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	PingContext(ctx context.Context) error
	DriverName() string
	Stats() sql.DBStats
	Close() error
	Unwrap() *sqlx.DB
}

type DatabaseInstance struct {
	*sqlx.DB
	logger ectologger.Logger
}

func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger) DB {
	return &DatabaseInstance{
		DB:     db,
		logger: logger,
	}
}

// Unwrap exposes the underlying sqlx handle for components that need the raw
// *sql.DB (the migration driver).
func (db *DatabaseInstance) Unwrap() *sqlx.DB {
	return db.DB
}

// Config holds the SQLite connection settings.
type Config struct {
	// Path is the location of the database file.
	Path string
	// BusyTimeout is how long a statement waits on a locked database before
	// failing.
	BusyTimeout time.Duration
}

// Connect opens the SQLite database file with foreign key enforcement on, so
// invalid references fail at the storage boundary. Writes are serialized by
// capping the pool at a single connection; the store assumes one interactive
// user.
func Connect(cfg Config, logger ectologger.Logger) (DB, error) {
	busyMs := int(cfg.BusyTimeout / time.Millisecond)
	if busyMs <= 0 {
		busyMs = 5000
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", cfg.Path, busyMs)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		logger.WithError(err).Errorf("failed to open database at %s", cfg.Path)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	logger.WithField("path", cfg.Path).Info("connected to database")

	return NewDatabaseInstance(db, logger), nil
}
