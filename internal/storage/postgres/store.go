package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/migration"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/storage"
	"github.com/flowday/flowday/migrations"
)

type Store struct {
	connStr string
	db      *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func New(connStr string) *Store {
	s := &Store{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

// ensureSearchPath pins the session to the flowday schema unless the caller chose one.
func (s *Store) ensureSearchPath() {
	if storage.IsPostgres(s.connStr) {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}
	if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a key=value DSN contains key (case-insensitive).
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN without
// an embedded password. Passwords belong in .pgpass or PGPASSWORD.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if storage.IsPostgres(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if hasParam(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(constants.AppName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
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
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverPostgres)
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

// GetConfigPath returns the connection string.
func (s *Store) GetConfigPath() string {
	return s.connStr
}

var (
	_ storage.Provider       = (*Store)(nil)
	_ storage.SchemaReporter = (*Store)(nil)
)
