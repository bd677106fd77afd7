package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// SettingsFile is the Claude settings path relative to the project directory.
const SettingsFile = ".claude/settings.json"

type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

type HookGroup struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// ClaudeHooks renders the enabled registry entries as the "hooks" section of
// Claude settings. Entries sharing a matcher land in the same group, in
// registry order.
func (c *Config) ClaudeHooks(binDir string) map[string][]HookGroup {
	if binDir == "" {
		binDir = c.BinDir
	}
	prefix := strings.TrimRight(ExpandHome(binDir), "/")

	out := map[string][]HookGroup{}
	for _, ev := range c.Events() {
		var groups []HookGroup
		index := map[string]int{}
		for _, e := range *ev.Entries {
			if e.Name == "" || !e.Included() {
				continue
			}
			cmd := HookCommand{Type: "command", Command: e.Name, Timeout: e.Timeout}
			if prefix != "" {
				cmd.Command = prefix + "/" + e.Name
			}
			i, ok := index[e.Matcher]
			if !ok {
				i = len(groups)
				index[e.Matcher] = i
				groups = append(groups, HookGroup{Matcher: e.Matcher})
			}
			groups[i].Hooks = append(groups[i].Hooks, cmd)
		}
		if len(groups) > 0 {
			out[ev.Event] = groups
		}
	}
	return out
}

// MergeSettings replaces the "hooks" key of an existing settings document,
// keeping every other key as-is. Non-empty env entries are merged into the
// "env" object, overwriting variables of the same name.
func MergeSettings(existing []byte, hooks map[string][]HookGroup, env map[string]string) ([]byte, error) {
	doc := map[string]json.RawMessage{}
	if len(strings.TrimSpace(string(existing))) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("parsing existing settings: %w", err)
		}
	}
	raw, err := json.Marshal(hooks)
	if err != nil {
		return nil, err
	}
	doc["hooks"] = raw

	if len(env) > 0 {
		vars := map[string]string{}
		if prev, ok := doc["env"]; ok {
			if err := json.Unmarshal(prev, &vars); err != nil {
				return nil, fmt.Errorf("parsing existing env: %w", err)
			}
		}
		for k, v := range env {
			vars[k] = v
		}
		if doc["env"], err = json.Marshal(vars); err != nil {
			return nil, err
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// WriteSettings merges hooks and env into the settings file at path,
// creating it if needed.
func WriteSettings(path string, hooks map[string][]HookGroup, env map[string]string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	out, err := MergeSettings(existing, hooks, env)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
