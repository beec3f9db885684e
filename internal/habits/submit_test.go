package habits

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/storage"
)

const mealID = "6f1c2d3e-4b5a-4c6d-8e7f-901234567890"

type fakeCreator struct {
	calls int
	err   error
	last  models.HabitBatchRequest
}

func (f *fakeCreator) CreateHabit(_ context.Context, req models.HabitBatchRequest) (models.HabitBatchResult, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return models.HabitBatchResult{}, f.err
	}
	return models.HabitBatchResult{AutoAddedCount: len(req.SubEntities), TotalSubEntityCount: len(req.SubEntities)}, nil
}

type memRecorder struct {
	subs []storage.Submission
}

func (m *memRecorder) RecordSubmission(s storage.Submission) error {
	m.subs = append(m.subs, s)
	return nil
}

func openDraft(t *testing.T) *schedule.Draft {
	t.Helper()
	d := schedule.NewDraft(schedule.DefaultDefaults(), nil)
	d.Open(mealID, []models.InstructionRef{
		{ID: "0b7e2f6a-1c3d-4e5f-8a9b-0c1d2e3f4a5b", Step: 1, Text: "Chop onions"},
		{ID: "1c8f3a7b-2d4e-4f6a-9b0c-1d2e3f4a5b6c", Step: 2, Text: "Simmer sauce"},
	}, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	return d
}

func TestSubmitSuccess(t *testing.T) {
	creator := &fakeCreator{}
	recorder := &memRecorder{}
	lockPath := filepath.Join(t.TempDir(), "submit.lock")
	s := NewSubmitter(creator, recorder, lockPath)

	d := openDraft(t)
	result, err := s.Submit(context.Background(), d)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.TotalSubEntityCount != 1 {
		t.Errorf("auto mode should send one placeholder, got %+v", result)
	}
	if d.Phase() != schedule.PhaseIdle {
		t.Errorf("draft phase = %v, want Idle", d.Phase())
	}
	if len(recorder.subs) != 1 || recorder.subs[0].Status != storage.SubmissionSucceeded || recorder.subs[0].MealID != mealID {
		t.Errorf("recorded = %+v", recorder.subs)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("lock not released")
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	remote := &api.RemoteError{StatusCode: 404, Message: "Meal not found"}
	creator := &fakeCreator{err: remote}
	recorder := &memRecorder{}
	s := NewSubmitter(creator, recorder, filepath.Join(t.TempDir(), "submit.lock"))

	d := openDraft(t)
	if err := d.SetCustomization(true); err != nil {
		t.Fatal(err)
	}
	_, err := s.Submit(context.Background(), d)
	if !errors.Is(err, remote) {
		t.Fatalf("err = %v", err)
	}
	if d.Phase() != schedule.PhaseEditing || !d.Customizing() || d.Steps().Len() != 2 {
		t.Errorf("draft not retained: phase=%v customizing=%v steps=%d", d.Phase(), d.Customizing(), d.Steps().Len())
	}
	if !errors.Is(d.LastError(), remote) {
		t.Errorf("LastError = %v", d.LastError())
	}
	if len(recorder.subs) != 1 || recorder.subs[0].Status != storage.SubmissionFailed || recorder.subs[0].SubEntityCount != 2 {
		t.Errorf("recorded = %+v", recorder.subs)
	}
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	creator := &fakeCreator{}
	s := NewSubmitter(creator, nil, filepath.Join(t.TempDir(), "submit.lock"))

	d := openDraft(t)
	if _, err := d.BeginSubmit(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(context.Background(), d); !errors.Is(err, schedule.ErrSubmitInFlight) {
		t.Errorf("err = %v, want ErrSubmitInFlight", err)
	}
	if creator.calls != 0 {
		t.Error("duplicate submission reached the API")
	}
}

func TestSubmitInvalidDraftSendsNothing(t *testing.T) {
	creator := &fakeCreator{}
	s := NewSubmitter(creator, nil, filepath.Join(t.TempDir(), "submit.lock"))

	d := openDraft(t)
	main := d.Main()
	main.StartDate = "not-a-date"
	_ = d.SetMain(main)

	if _, err := s.Submit(context.Background(), d); err == nil {
		t.Fatal("expected validation error")
	}
	if creator.calls != 0 {
		t.Error("invalid request reached the API")
	}
	if d.Phase() != schedule.PhaseEditing {
		t.Errorf("phase = %v", d.Phase())
	}
}

func TestSendBlockedByHeldLock(t *testing.T) {
	creator := &fakeCreator{}
	lockPath := filepath.Join(t.TempDir(), "submit.lock")
	// our own pid is always running, so this lock reads as held
	content := []byte(fmt.Sprintf("%d||meal other", os.Getpid()))
	if err := os.WriteFile(lockPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	s := NewSubmitter(creator, nil, lockPath)
	d := openDraft(t)
	req, err := d.BeginSubmit()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Send(context.Background(), req); err == nil {
		t.Error("expected lock error")
	}
	if creator.calls != 0 {
		t.Error("request sent while another session held the lock")
	}
}
