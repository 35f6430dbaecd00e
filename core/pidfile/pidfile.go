// Package pidfile implements the advisory liveness marker of a running server.
//
// The marker is a file holding the master PID while the server runs and empty
// content once it has shut down. No locking is performed.
package pidfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPath is used when no pid file is configured.
const DefaultPath = "storage/logs/pid"

// Marker reads and writes the liveness marker file.
type Marker struct {
	path string
}

// New returns a marker for path; an empty path selects DefaultPath.
func New(path string) *Marker {
	if path == "" {
		path = DefaultPath
	}
	return &Marker{path: path}
}

// Path returns the marker file location.
func (m *Marker) Path() string {
	return m.path
}

// IsRunning reports whether the marker exists with non-empty content.
// Any read failure counts as not running.
func (m *Marker) IsRunning() bool {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return false
	}
	return len(data) > 0
}

// PID returns the recorded process id, or 0 when none is recorded.
func (m *Marker) PID() (int, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read pid file: %w", err)
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return 0, nil
	}
	pid, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse pid file %s: %w", m.path, err)
	}
	return pid, nil
}

// MarkRunning records pid, creating parent directories as needed.
func (m *Marker) MarkRunning(pid int) error {
	return m.write([]byte(strconv.Itoa(pid)))
}

// MarkStopped truncates the marker to empty content.
func (m *Marker) MarkStopped() error {
	return m.write(nil)
}

func (m *Marker) write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create pid dir: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}
