// Package session remembers which sessions have already seen a hook's
// first-prompt output, using one marker file per session id.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultRetention is how long another session's marker survives a sweep.
const DefaultRetention = 7 * 24 * time.Hour

const markerSuffix = ".seen"

var ErrInvalidID = errors.New("invalid session id")

// MarkersDir returns the marker directory for a hook, under the project's
// .claude directory when projectDir is set and under the home directory
// otherwise.
func MarkersDir(projectDir, homeDir, hook string) string {
	name := "hook_" + strings.ReplaceAll(hook, "-", "_") + "_session_markers"
	base := projectDir
	if base == "" {
		base = homeDir
	}
	return filepath.Join(base, ".claude", name)
}

// Tracker records seen sessions in Dir.
type Tracker struct {
	Dir       string
	Retention time.Duration
	Now       func() time.Time
}

func (t *Tracker) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`+"\x00")
}

// IsFirstPrompt reports whether id has not been seen before, marks it seen
// (refreshing the marker's mtime), and sweeps stale markers of other
// sessions.
func (t *Tracker) IsFirstPrompt(id string) (bool, error) {
	if !validID(id) {
		return false, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return false, fmt.Errorf("creating markers dir: %w", err)
	}

	marker := filepath.Join(t.Dir, id+markerSuffix)
	_, statErr := os.Stat(marker)
	first := os.IsNotExist(statErr)

	if err := t.touch(marker); err != nil {
		return false, err
	}
	t.Sweep(id)
	return first, nil
}

func (t *Tracker) touch(path string) error {
	now := t.now()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("touching marker: %w", err)
	}
	_ = f.Close()
	if err := os.Chtimes(path, now, now); err != nil {
		return fmt.Errorf("touching marker: %w", err)
	}
	return nil
}

// Sweep deletes markers older than the retention window, never the marker of
// current. Errors on individual markers are ignored.
func (t *Tracker) Sweep(current string) {
	retention := t.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := t.now().Add(-retention)

	entries, err := os.ReadDir(t.Dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, markerSuffix) {
			continue
		}
		if strings.TrimSuffix(name, markerSuffix) == current {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(t.Dir, name))
		}
	}
}
