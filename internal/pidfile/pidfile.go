// Package pidfile records the process ID of a running server
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrRunning is returned by Write when the file names another live process
var ErrRunning = errors.New("another process is running")

// Pidfile represents a PID file
type Pidfile struct {
	path string
}

// New creates a new PID file instance
func New(path string) *Pidfile {
	return &Pidfile{
		path: path,
	}
}

// Write writes the current PID to the PID file. A file left behind by a
// process that has exited is replaced.
func (p *Pidfile) Write() error {
	if pid, err := p.Read(); err == nil && pid != os.Getpid() && processAlive(pid) {
		return fmt.Errorf("%w: pid %d owns %s", ErrRunning, pid, p.path)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create pidfile directory: %w", err)
	}

	content := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(p.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write pidfile: %w", err)
	}

	return nil
}

// Read reads the PID from the PID file
func (p *Pidfile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read pidfile: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in pidfile: %w", err)
	}

	return pid, nil
}

// Remove removes the PID file if it still holds our PID
func (p *Pidfile) Remove() error {
	if pid, err := p.Read(); err == nil && pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pidfile: %w", err)
	}
	return nil
}

// Path returns the PID file path
func (p *Pidfile) Path() string {
	return p.path
}
