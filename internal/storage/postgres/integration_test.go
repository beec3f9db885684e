package postgres

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/storage"
)

// Set POSTGRES_TEST_URL to run, e.g.
// POSTGRES_TEST_URL="postgres://flowday@localhost:5432/flowday_test?sslmode=disable"
func setupIntegrationStore(t *testing.T) *Store {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		store.db.Exec("DROP SCHEMA IF EXISTS " + constants.AppName + " CASCADE")
		store.Close()
	})
	return store
}

func TestIntegrationSettingsAndCache(t *testing.T) {
	store := setupIntegrationStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.PrepOffsetMin != constants.DefaultPrepOffsetMin {
		t.Errorf("PrepOffsetMin = %d", settings.PrepOffsetMin)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	entry := storage.CacheEntry{Key: "meals", Tag: constants.TagMeals, Payload: []byte(`[]`), FetchedAt: now, ExpiresAt: now.Add(time.Minute)}
	if err := store.PutCacheEntry(entry); err != nil {
		t.Fatalf("PutCacheEntry failed: %v", err)
	}
	got, err := store.GetCacheEntry("meals")
	if err != nil || !got.ExpiresAt.Equal(entry.ExpiresAt) {
		t.Errorf("GetCacheEntry = %+v, %v", got, err)
	}

	if n, err := store.InvalidateTag(constants.TagMeals); err != nil || n != 1 {
		t.Errorf("InvalidateTag = %d, %v", n, err)
	}
	if _, err := store.GetCacheEntry("meals"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	sub := storage.Submission{ID: "s1", MealID: "m1", TargetWeekday: models.Monday, SubEntityCount: 2, Status: storage.SubmissionSucceeded, CreatedAt: now}
	if err := store.RecordSubmission(sub); err != nil {
		t.Fatalf("RecordSubmission failed: %v", err)
	}
	subs, err := store.ListSubmissions(10)
	if err != nil || len(subs) != 1 {
		t.Errorf("ListSubmissions = %+v, %v", subs, err)
	}
}
