// Package store implements cabplanner storage over sqlx. The default
// backend is an embedded SQLite file in the data directory; PostgreSQL is
// used when the config selects it with a DSN. Both share one schema applied
// with goose migrations.
package store

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DBFileName is the SQLite database file created in the data directory.
const DBFileName = "cabplanner.db"

// Store owns the database handle and implements every repository interface
// in pkg/types.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sqlx.DB
	log      logging.Logger
}

var (
	_ types.Lifecycle             = (*Store)(nil)
	_ types.ProjectRepository     = (*Store)(nil)
	_ types.CabinetTypeRepository = (*Store)(nil)
	_ types.CabinetRepository     = (*Store)(nil)
	_ types.AccessoryRepository   = (*Store)(nil)
	_ types.ConstantRepository    = (*Store)(nil)
	_ types.SettingRepository     = (*Store)(nil)
	_ types.ColorRepository       = (*Store)(nil)
)

// New returns a detached store. A nil logger discards output.
func New(log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{log: log}
}

// Attach opens the configured database, applies migrations and seeds
// reference data unless config.SkipSeed is set.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	db, dialect, err := open(config)
	if err != nil {
		return err
	}
	if err := migrate(db, dialect); err != nil {
		db.Close()
		return err
	}

	if !config.SkipSeed {
		if err := seed(context.Background(), db); err != nil {
			db.Close()
			return fmt.Errorf("seeding reference data: %w", err)
		}
	}

	s.db = db
	s.config = config
	s.attached = true
	s.log.Debug(context.Background(), "store attached", "backend", config.Backend, "data_dir", config.DataDir)
	return nil
}

// Detach closes the database. Detach is idempotent; after it, repository
// calls return ErrDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	s.attached = false
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		if err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	return nil
}

// Config returns the config the store was attached with.
func (s *Store) Config() types.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// conn returns the attached handle or ErrDetached.
func (s *Store) conn() (*sqlx.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrDetached
	}
	return s.db, nil
}

// open connects to the backend named in config and returns the goose
// dialect for it.
func open(config types.Config) (*sqlx.DB, string, error) {
	if config.Backend == types.BackendPostgres {
		db, err := sqlx.Connect("pgx", config.DSN)
		if err != nil {
			return nil, "", fmt.Errorf("connecting to postgres: %w", err)
		}
		return db, string(goose.DialectPostgres), nil
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating data dir: %w", err)
	}
	db, err := openSQLite(filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, "", err
	}
	return db, string(goose.DialectSQLite3), nil
}

// openSQLite connects to a SQLite file with WAL and foreign keys enabled.
// A single connection keeps the foreign_keys pragma in effect.
func openSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_fk=true", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// migrate applies the embedded migrations.
func migrate(db *sqlx.DB, dialect string) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect for migrations: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("applying migration: %w", err)
	}
	return nil
}
