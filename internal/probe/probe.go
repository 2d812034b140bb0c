// Package probe provides presence checks for the game client.
package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Func adapts a function to the monitor's Probe interface.
type Func func() (bool, error)

func (f Func) WindowPresent() (bool, error) {
	return f()
}

// ErrUnsupported is returned on platforms without a /proc filesystem.
var ErrUnsupported = errors.New("process probe: /proc not available")

// Process reports the game as present while a process with the configured
// name is running. It reads /proc/<pid>/comm, so it only works on Linux
// (including clients run under Wine or Proton).
type Process struct {
	name string
	root string
}

// NewProcess creates a probe for processes named name. Matching is
// case-insensitive and ignores a trailing ".exe".
func NewProcess(name string) *Process {
	return &Process{name: normalize(name), root: "/proc"}
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".exe")
}

func (p *Process) WindowPresent() (bool, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, ErrUnsupported
		}
		return false, fmt.Errorf("read %s: %w", p.root, err)
	}

	for _, e := range entries {
		if !e.IsDir() || !isPID(e.Name()) {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(p.root, e.Name(), "comm"))
		if err != nil {
			// Process exited between ReadDir and ReadFile.
			continue
		}
		// comm is truncated to 15 bytes by the kernel.
		got := normalize(string(comm))
		if got == p.name || (len(got) == 15 && strings.HasPrefix(p.name, got)) {
			return true, nil
		}
	}
	return false, nil
}

func isPID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
