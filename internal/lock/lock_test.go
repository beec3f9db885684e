package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

// withProcesses fakes the process table and the current pid.
func withProcesses(t *testing.T, self int, running map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() {
		findProcessFunc = oldFind
		getpidFunc = oldPid
	})
	getpidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		if exe, ok := running[pid]; ok {
			return &mockProcess{pid: pid, executable: exe}, nil
		}
		return nil, nil
	}
}

func TestAcquireAndRelease(t *testing.T) {
	withProcesses(t, 100, map[int]string{100: "flowday"})
	path := filepath.Join(t.TempDir(), "submit.lock")

	l, err := Acquire(path, "meal m1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "100|flowday|meal m1" {
		t.Errorf("lockfile = %q", data)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lockfile still exists after Release")
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release failed: %v", err)
	}
}

func TestAcquireBlockedByLiveProcess(t *testing.T) {
	withProcesses(t, 100, map[int]string{100: "flowday", 200: "flowday"})
	path := filepath.Join(t.TempDir(), "submit.lock")
	if err := os.WriteFile(path, []byte("200|flowday|meal m2"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Acquire(path, "meal m1")
	var held *HeldError
	if !errors.As(err, &held) {
		t.Fatalf("err = %v, want *HeldError", err)
	}
	if held.PID != 200 || held.Owner != "meal m2" {
		t.Errorf("held = %+v", held)
	}
}

func TestAcquireReclaimsStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{"dead process", "200|flowday|meal m2", map[int]string{100: "flowday"}},
		{"pid reused by another program", "200|flowday|meal m2", map[int]string{100: "flowday", 200: "postgres"}},
		{"malformed", "garbage", map[int]string{100: "flowday"}},
		{"bad pid", "abc|flowday|x", map[int]string{100: "flowday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcesses(t, 100, tt.running)
			path := filepath.Join(t.TempDir(), "submit.lock")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			l, err := Acquire(path, "meal m1")
			if err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			defer l.Release()

			data, _ := os.ReadFile(path)
			if string(data) != "100|flowday|meal m1" {
				t.Errorf("lockfile = %q", data)
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	withProcesses(t, 100, map[int]string{100: "flowday"})
	path := filepath.Join(t.TempDir(), "submit.lock")

	l, err := Acquire(path, "meal m1")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("300|flowday|meal m3"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("foreign lockfile was removed")
	}
}
