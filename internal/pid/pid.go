// Package pid guards a data directory with a pid file so two pipeline runs
// never write the same artifacts at once.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/marketintel/internal/errors"
)

const (
	pidFile = "marketintel.pid"
)

// Path returns the pid file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, pidFile)
}

// Write writes the current process ID to the pid file in dir. It fails with
// ErrAlreadyRunning while another live process holds the file; a file left by
// a dead process is replaced.
func Write(dir string) error {
	errFactory := errors.New()
	pid := os.Getpid()
	path := Path(dir)

	if _, err := os.Stat(path); err == nil {
		// PID file exists, check if the process is running
		bytes, err := os.ReadFile(path)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		owner, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err).WithMessage("malformed pid file " + path)
		}

		process, err := os.FindProcess(owner)
		if err != nil {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		err = process.Signal(syscall.Signal(0))
		if err == nil {
			return errFactory.WithData(errors.ErrAlreadyRunning, struct {
				PID  int
				Path string
			}{owner, path})
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o600)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the pid file in dir.
func Remove(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}
