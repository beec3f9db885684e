package sqlite

import (
	"fmt"

	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/storage"
)

func (s *Store) GetSettings() (models.Settings, error) {
	if s.db == nil {
		return models.Settings{}, storage.ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}

	return tx.Commit()
}
