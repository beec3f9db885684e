package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flowday/flowday/internal/storage"
)

func (s *Store) GetCacheEntry(key string) (storage.CacheEntry, error) {
	if s.db == nil {
		return storage.CacheEntry{}, storage.ErrNotLoaded
	}

	var entry storage.CacheEntry
	var fetchedAt, expiresAt string
	err := s.db.QueryRow(
		"SELECT key, tag, payload, fetched_at, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&entry.Key, &entry.Tag, &entry.Payload, &fetchedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CacheEntry{}, fmt.Errorf("cache entry %s: %w", key, storage.ErrNotFound)
		}
		return storage.CacheEntry{}, err
	}

	if entry.FetchedAt, err = time.Parse(timeLayout, fetchedAt); err != nil {
		return storage.CacheEntry{}, fmt.Errorf("parsing fetched_at: %w", err)
	}
	if entry.ExpiresAt, err = time.Parse(timeLayout, expiresAt); err != nil {
		return storage.CacheEntry{}, fmt.Errorf("parsing expires_at: %w", err)
	}
	return entry, nil
}

func (s *Store) PutCacheEntry(entry storage.CacheEntry) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO cache_entries (key, tag, payload, fetched_at, expires_at) VALUES (?, ?, ?, ?, ?)",
		entry.Key,
		entry.Tag,
		entry.Payload,
		entry.FetchedAt.UTC().Format(timeLayout),
		entry.ExpiresAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *Store) InvalidateTag(tag string) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrNotLoaded
	}

	res, err := s.db.Exec("DELETE FROM cache_entries WHERE tag = ?", tag)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) PurgeCache() (int64, error) {
	if s.db == nil {
		return 0, storage.ErrNotLoaded
	}

	res, err := s.db.Exec("DELETE FROM cache_entries")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
