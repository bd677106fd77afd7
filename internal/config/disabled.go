package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DisabledHooksFile is relative to the project directory.
const DisabledHooksFile = ".claude/disabled-hooks"

// DisabledHooks is the set of hook names that must no-op in this project.
type DisabledHooks map[string]bool

// Has reports whether name is disabled.
func (d DisabledHooks) Has(name string) bool {
	return d[name]
}

// ParseDisabledHooks reads one hook name per line. Blank lines and lines
// starting with '#' are ignored.
func ParseDisabledHooks(data []byte) DisabledHooks {
	set := DisabledHooks{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = true
	}
	return set
}

// LoadDisabledHooks merges the project's disabled-hooks file with the
// comma-separated HOOK_DISABLED value. A missing or unreadable file counts
// as empty.
func LoadDisabledHooks(projectDir, envValue string) DisabledHooks {
	set := DisabledHooks{}
	if projectDir != "" {
		if data, err := os.ReadFile(filepath.Join(projectDir, DisabledHooksFile)); err == nil {
			set = ParseDisabledHooks(data)
		}
	}
	for _, s := range strings.Split(envValue, ",") {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = true
		}
	}
	return set
}

// SetHookDisabled adds or removes name in the project's disabled-hooks file,
// leaving comments and other entries in place. It reports whether the file
// changed.
func SetHookDisabled(projectDir, name string, disabled bool) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "#") {
		return false, fmt.Errorf("invalid hook name %q", name)
	}
	path := filepath.Join(projectDir, DisabledHooksFile)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}

	present := false
	kept := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l) == name {
			present = true
			if !disabled {
				continue
			}
		}
		kept = append(kept, l)
	}

	switch {
	case disabled && present, !disabled && !present:
		return false, nil
	case disabled:
		kept = append(kept, name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	out := ""
	if len(kept) > 0 {
		out = strings.Join(kept, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
