// Package storage defines the local persistence used by the flowday client:
// settings, the query cache and the habit submission log.
package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/flowday/flowday/internal/models"
)

// ErrNotFound is returned when a cache entry or setting does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotLoaded is returned by a store used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// CacheEntry is a persisted API response.
type CacheEntry struct {
	Key       string
	Tag       string
	Payload   []byte
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is stale at now.
func (e CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// SubmissionStatus is the outcome of a habit batch submission.
type SubmissionStatus string

const (
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"
)

// Submission records one attempt to create a meal habit.
type Submission struct {
	ID             string
	MealID         string
	TargetWeekday  models.Weekday
	SubEntityCount int
	Status         SubmissionStatus
	Message        string
	CreatedAt      time.Time
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Query cache
	GetCacheEntry(key string) (CacheEntry, error)
	PutCacheEntry(CacheEntry) error
	InvalidateTag(tag string) (int64, error)
	PurgeCache() (int64, error)

	// Submission log
	RecordSubmission(Submission) error
	ListSubmissions(limit int) ([]Submission, error)

	// Utils
	GetConfigPath() string
}

// SchemaReporter is implemented by stores backed by versioned migrations.
type SchemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}

// IsPostgres reports whether target is a PostgreSQL connection URL rather than
// a SQLite file path.
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}
