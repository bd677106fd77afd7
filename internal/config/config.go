package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegistryFile is the hook registry path relative to the project directory.
const RegistryFile = ".claude/hooks.yaml"

//go:embed default.yaml
var DefaultYAML []byte

type HookEntry struct {
	Name    string `yaml:"name"`
	Matcher string `yaml:"matcher,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// UnmarshalYAML accepts either a bare hook name or a mapping.
func (h *HookEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		h.Name = value.Value
		return nil
	}
	var m struct {
		Name    string `yaml:"name"`
		Matcher string `yaml:"matcher"`
		Timeout int    `yaml:"timeout"`
		Enabled *bool  `yaml:"enabled"`
	}
	if err := value.Decode(&m); err != nil {
		return err
	}
	h.Name = m.Name
	h.Matcher = m.Matcher
	h.Timeout = m.Timeout
	h.Enabled = m.Enabled
	return nil
}

func (h HookEntry) Included() bool {
	return h.Enabled == nil || *h.Enabled
}

type Config struct {
	Version          int               `yaml:"version"`
	BinDir           string            `yaml:"binDir,omitempty"`
	Env              map[string]string `yaml:"env,omitempty"`
	SessionStart     []HookEntry       `yaml:"sessionStart"`
	UserPromptSubmit []HookEntry       `yaml:"userPromptSubmit"`
	PreToolUse       []HookEntry       `yaml:"preToolUse"`
	PostToolUse      []HookEntry       `yaml:"postToolUse,omitempty"`
}

// EventEntries pairs a Claude hook event name with its entries.
type EventEntries struct {
	Event   string
	Entries *[]HookEntry
}

func (c *Config) Events() []EventEntries {
	return []EventEntries{
		{"SessionStart", &c.SessionStart},
		{"UserPromptSubmit", &c.UserPromptSubmit},
		{"PreToolUse", &c.PreToolUse},
		{"PostToolUse", &c.PostToolUse},
	}
}

// HookNames returns every distinct hook name in registry order.
func (c *Config) HookNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, ev := range c.Events() {
		for _, e := range *ev.Entries {
			if e.Name == "" || seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	return names
}

// EventsFor lists the events a hook is registered for.
func (c *Config) EventsFor(name string) []string {
	var out []string
	for _, ev := range c.Events() {
		for _, e := range *ev.Entries {
			if e.Name == name {
				out = append(out, ev.Event)
				break
			}
		}
	}
	return out
}

// Default parses the embedded registry.
func Default() *Config {
	cfg, err := Parse(DefaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default registry: %v", err))
	}
	return cfg
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads a YAML registry from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the project registry, falling back to the embedded one
// when the project has none.
func LoadOrDefault(projectDir string) (*Config, string, error) {
	path := filepath.Join(projectDir, RegistryFile)
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Save marshals cfg to YAML and writes it to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FindProjectDir searches upward from dir for a directory holding .claude/ or
// .git/, returning dir itself when neither is found.
func FindProjectDir(dir string) string {
	start := dir
	for {
		for _, marker := range []string{".claude", ".git"} {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
