// Package triggers expands "+name" prompt suffixes and session mode flags
// into configured text fragments.
package triggers

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AlwaysKey names the fragment injected into every prompt.
const AlwaysKey = "_always"

// FileStem is the base name of trigger config files; any of Extensions may
// follow it.
const FileStem = "prompt-triggers"

var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

//go:embed default.toml
var DefaultTOML []byte

// Trigger is one configured fragment. File, when set, is read relative to
// the config file and replaces Content.
type Trigger struct {
	Aliases []string `toml:"aliases" yaml:"aliases" json:"aliases"`
	Content string   `toml:"content" yaml:"content" json:"content"`
	File    string   `toml:"file" yaml:"file" json:"file"`
}

// Entries maps canonical names to triggers.
type Entries map[string]Trigger

// Parse decodes data in the given format: "toml", "yaml" or "json".
func Parse(data []byte, format string) (Entries, error) {
	entries := Entries{}
	var err error
	switch format {
	case "toml":
		err = toml.Unmarshal(data, &entries)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &entries)
	case "json":
		err = json.Unmarshal(data, &entries)
	default:
		return nil, fmt.Errorf("unsupported trigger config format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadFile parses path by extension and inlines any File references.
func LoadFile(path string) (Entries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	entries, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for name, t := range entries {
		if t.File == "" {
			continue
		}
		ref := t.File
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(dir, ref)
		}
		if body, err := os.ReadFile(ref); err == nil {
			t.Content = string(body)
		} else {
			t.Content = ""
		}
		entries[name] = t
	}
	return entries, nil
}

// FindFile returns the first existing dir/prompt-triggers.<ext>, or "".
func FindFile(dir string) string {
	if dir == "" {
		return ""
	}
	for _, ext := range Extensions {
		p := filepath.Join(dir, FileStem+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Config is the merged, alias-resolved trigger table.
type Config struct {
	entries Entries
	aliases map[string]string
}

// New merges system and project entries; a project entry replaces the system
// entry of the same name entirely. Aliases are registered in sorted canonical
// order, so on collision the alphabetically last canonical name wins.
func New(system, project Entries) *Config {
	merged := Entries{}
	for k, v := range system {
		merged[k] = v
	}
	for k, v := range project {
		merged[k] = v
	}

	names := make([]string, 0, len(merged))
	for k := range merged {
		names = append(names, k)
	}
	sort.Strings(names)

	aliases := map[string]string{}
	for _, name := range names {
		for _, a := range merged[name].Aliases {
			if a = strings.TrimSpace(a); a != "" {
				aliases[a] = name
			}
		}
	}
	return &Config{entries: merged, aliases: aliases}
}

// Load builds a Config from the system and project files. A file that fails
// to parse is reported through warn and treated as empty.
func Load(systemPath, projectPath string, warn func(path string, err error)) *Config {
	read := func(path string) Entries {
		if path == "" {
			return nil
		}
		entries, err := LoadFile(path)
		if err != nil {
			if warn != nil && !os.IsNotExist(err) {
				warn(path, err)
			}
			return nil
		}
		return entries
	}
	return New(read(systemPath), read(projectPath))
}

// Resolve maps a canonical name or alias to its canonical name. The
// always-on key is not addressable.
func (c *Config) Resolve(name string) (string, bool) {
	if name == "" || name == AlwaysKey {
		return "", false
	}
	if _, ok := c.entries[name]; ok {
		return name, true
	}
	if canon, ok := c.aliases[name]; ok {
		return canon, true
	}
	return "", false
}

// Content returns the fragment for a canonical name.
func (c *Config) Content(name string) string {
	return c.entries[name].Content
}

// Always returns the unconditional fragment, or "".
func (c *Config) Always() string {
	return c.entries[AlwaysKey].Content
}

// Names lists canonical names other than the always-on key, sorted.
func (c *Config) Names() []string {
	var out []string
	for k := range c.entries {
		if k != AlwaysKey {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
