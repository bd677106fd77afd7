package triggers

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Prefix marks a trigger token.
const Prefix = "+"

const (
	modeFlagPrefix = "hook-"
	modeFlagSuffix = "-mode-on"
)

// Split separates the trailing run of "+name" tokens from prompt. It returns
// the remaining text with trailing whitespace removed and the canonical names
// of the resolvable triggers in written order, without duplicates.
// Unresolvable tokens are dropped but still stripped from the text.
func Split(prompt string, c *Config) (string, []string) {
	end := len(prompt)
	var found []string
	for {
		j := end
		for j > 0 {
			r, size := utf8.DecodeLastRuneInString(prompt[:j])
			if !unicode.IsSpace(r) {
				break
			}
			j -= size
		}
		i := j
		for i > 0 {
			r, size := utf8.DecodeLastRuneInString(prompt[:i])
			if unicode.IsSpace(r) {
				break
			}
			i -= size
		}
		tok := prompt[i:j]
		if len(tok) <= len(Prefix) || !strings.HasPrefix(tok, Prefix) {
			break
		}
		found = append(found, tok[len(Prefix):])
		end = i
	}

	base := strings.TrimRightFunc(prompt[:end], unicode.IsSpace)

	var names []string
	seen := map[string]bool{}
	for k := len(found) - 1; k >= 0; k-- {
		canon, ok := c.Resolve(found[k])
		if !ok || seen[canon] {
			continue
		}
		seen[canon] = true
		names = append(names, canon)
	}
	return base, names
}

// ActiveModes returns the canonical names enabled by
// claudeDir/hook-<name>-mode-on flag files, in sorted file-name order.
// Flags naming no configured trigger are ignored.
func ActiveModes(claudeDir string, c *Config) []string {
	if claudeDir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(claudeDir, modeFlagPrefix+"*"+modeFlagSuffix))
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	var names []string
	seen := map[string]bool{}
	for _, m := range matches {
		base := filepath.Base(m)
		mode := strings.TrimSuffix(strings.TrimPrefix(base, modeFlagPrefix), modeFlagSuffix)
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}
		canon, ok := c.Resolve(mode)
		if !ok || seen[canon] {
			continue
		}
		seen[canon] = true
		names = append(names, canon)
	}
	return names
}

// Fragments collects the always-on fragment, then mode fragments, then
// trigger fragments. Empty fragments are skipped.
func Fragments(c *Config, modes, triggered []string) []string {
	var out []string
	add := func(s string) {
		if s != "" {
			out = append(out, s)
		}
	}
	add(c.Always())
	for _, m := range modes {
		add(c.Content(m))
	}
	for _, t := range triggered {
		add(c.Content(t))
	}
	return out
}

// Assemble joins base and fragments with blank lines. With no fragments the
// base is returned as is.
func Assemble(base string, fragments []string) string {
	if len(fragments) == 0 {
		return base
	}
	parts := make([]string, 0, len(fragments)+1)
	if base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, fragments...)
	return strings.Join(parts, "\n\n")
}

// Expand runs the whole pipeline for one prompt.
func Expand(prompt, claudeDir string, c *Config) string {
	base, triggered := Split(prompt, c)
	return Assemble(base, Fragments(c, ActiveModes(claudeDir, c), triggered))
}
