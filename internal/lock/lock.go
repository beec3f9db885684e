// Package lock provides a PID lockfile that keeps two flowday processes from
// submitting habits at the same time.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/flowday/flowday/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrMalformed is returned for a lockfile that cannot be parsed.
var ErrMalformed = errors.New("malformed lockfile")

// HeldError reports a live process holding the lock.
type HeldError struct {
	PID   int
	Owner string
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("another flowday session (pid %d) is submitting %s", e.PID, e.Owner)
}

// Lock is a held lockfile.
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire creates the lockfile at path. owner describes what the holder is
// doing and is shown to a blocked session. A lockfile left by a process that
// is no longer running is reclaimed.
func Acquire(path, owner string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	pid := getpidFunc()
	content := fmt.Sprintf("%d|%s|%s", pid, executableName(pid), strings.ReplaceAll(owner, "|", " "))

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Lock acquired", "path", path, "owner", owner)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		held, herr := inspect(path)
		if herr == nil && held != nil {
			return nil, held
		}
		logger.Warn("Reclaiming stale lockfile", "path", path, "reason", herr)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to acquire lock %s", path)
}

// Release removes the lockfile if it is still ours.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	pid, _, _, err := read(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	logger.Debug("Lock released", "path", l.path)
	return nil
}

// inspect returns a HeldError when the lockfile belongs to a running process,
// or an error explaining why the lockfile is stale.
func inspect(path string) (*HeldError, error) {
	pid, exe, owner, err := read(path)
	if err != nil {
		return nil, err
	}

	process, err := findProcessFunc(pid)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pid %d: %w", pid, err)
	}
	if process == nil {
		return nil, fmt.Errorf("pid %d is not running", pid)
	}
	if exe != "" && process.Executable() != exe {
		return nil, fmt.Errorf("pid %d is %s, not %s", pid, process.Executable(), exe)
	}
	return &HeldError{PID: pid, Owner: owner}, nil
}

func read(path string) (pid int, exe, owner string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", "", err
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 3)
	if len(parts) != 3 {
		return 0, "", "", ErrMalformed
	}
	pid, err = strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, "", "", ErrMalformed
	}
	return pid, parts[1], parts[2], nil
}

func executableName(pid int) string {
	if p, err := findProcessFunc(pid); err == nil && p != nil {
		return p.Executable()
	}
	return ""
}
