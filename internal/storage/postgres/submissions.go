package postgres

import (
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/storage"
)

func (s *Store) RecordSubmission(sub storage.Submission) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.Exec(`
		INSERT INTO habit_submissions (id, meal_id, target_weekday, sub_entity_count, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID,
		sub.MealID,
		string(sub.TargetWeekday),
		sub.SubEntityCount,
		string(sub.Status),
		sub.Message,
		sub.CreatedAt.UTC(),
	)
	return err
}

// ListSubmissions returns the most recent submissions first. A non-positive
// limit returns all of them.
func (s *Store) ListSubmissions(limit int) ([]storage.Submission, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	query := `
		SELECT id, meal_id, target_weekday, sub_entity_count, status, message, created_at
		FROM habit_submissions
		ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []storage.Submission
	for rows.Next() {
		var sub storage.Submission
		var weekday, status string
		if err := rows.Scan(&sub.ID, &sub.MealID, &weekday, &sub.SubEntityCount, &status, &sub.Message, &sub.CreatedAt); err != nil {
			return nil, err
		}
		sub.TargetWeekday = models.Weekday(weekday)
		sub.Status = storage.SubmissionStatus(status)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
