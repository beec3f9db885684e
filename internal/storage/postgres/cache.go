package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/flowday/flowday/internal/storage"
)

func (s *Store) GetCacheEntry(key string) (storage.CacheEntry, error) {
	if s.db == nil {
		return storage.CacheEntry{}, storage.ErrNotLoaded
	}

	var entry storage.CacheEntry
	err := s.db.QueryRow(
		"SELECT key, tag, payload, fetched_at, expires_at FROM cache_entries WHERE key = $1", key,
	).Scan(&entry.Key, &entry.Tag, &entry.Payload, &entry.FetchedAt, &entry.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CacheEntry{}, fmt.Errorf("cache entry %s: %w", key, storage.ErrNotFound)
		}
		return storage.CacheEntry{}, err
	}
	return entry, nil
}

func (s *Store) PutCacheEntry(entry storage.CacheEntry) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.Exec(`
		INSERT INTO cache_entries (key, tag, payload, fetched_at, expires_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			tag = EXCLUDED.tag,
			payload = EXCLUDED.payload,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at
	`, entry.Key, entry.Tag, entry.Payload, entry.FetchedAt.UTC(), entry.ExpiresAt.UTC())
	return err
}

func (s *Store) InvalidateTag(tag string) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrNotLoaded
	}

	res, err := s.db.Exec("DELETE FROM cache_entries WHERE tag = $1", tag)
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
