package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/migration"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/storage"
	"github.com/flowday/flowday/migrations"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer keeps concurrent cache fills from tripping SQLITE_BUSY
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'flowday init' first")
	}

	if err := s.open(); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite)
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Debug(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// SchemaVersion reports the applied and the latest embedded schema version.
func (s *Store) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("database not loaded")
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

var (
	_ storage.Provider       = (*Store)(nil)
	_ storage.SchemaReporter = (*Store)(nil)
)
