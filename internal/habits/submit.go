// Package habits submits assembled habit batches: one at a time across
// sessions, with every attempt written to the local submission log.
package habits

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flowday/flowday/internal/lock"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/storage"
)

// Creator sends a habit batch to the API.
type Creator interface {
	CreateHabit(ctx context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error)
}

// Recorder persists submission attempts.
type Recorder interface {
	RecordSubmission(storage.Submission) error
}

type Submitter struct {
	creator  Creator
	recorder Recorder
	lockPath string
	now      func() time.Time
}

// NewSubmitter returns a Submitter. A nil recorder disables the log.
func NewSubmitter(creator Creator, recorder Recorder, lockPath string) *Submitter {
	return &Submitter{
		creator:  creator,
		recorder: recorder,
		lockPath: lockPath,
		now:      time.Now,
	}
}

// Submit validates the draft, sends it and moves it to Idle on success or
// back to Editing on failure.
func (s *Submitter) Submit(ctx context.Context, d *schedule.Draft) (models.HabitBatchResult, error) {
	req, err := d.BeginSubmit()
	if err != nil {
		return models.HabitBatchResult{}, err
	}

	result, err := s.Send(ctx, req)
	if err != nil {
		d.Fail(err)
		return models.HabitBatchResult{}, err
	}
	d.Succeed()
	return result, nil
}

// Send submits a request that already passed Draft.BeginSubmit. It holds the
// submission lock for the duration of the request and never retries.
func (s *Submitter) Send(ctx context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error) {
	l, err := lock.Acquire(s.lockPath, "meal "+req.EntityID)
	if err != nil {
		return models.HabitBatchResult{}, err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release submission lock", "error", err)
		}
	}()

	result, err := s.creator.CreateHabit(ctx, req)
	s.record(req, err)
	return result, err
}

func (s *Submitter) record(req models.HabitBatchRequest, sendErr error) {
	if s.recorder == nil {
		return
	}
	sub := storage.Submission{
		ID:             uuid.New().String(),
		MealID:         req.EntityID,
		TargetWeekday:  req.TargetWeekday,
		SubEntityCount: len(req.SubEntities),
		Status:         storage.SubmissionSucceeded,
		CreatedAt:      s.now(),
	}
	if sendErr != nil {
		sub.Status = storage.SubmissionFailed
		sub.Message = sendErr.Error()
	}
	if err := s.recorder.RecordSubmission(sub); err != nil {
		logger.Warn("Failed to record habit submission", "meal", req.EntityID, "error", err)
	}
}
