package hooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const SkipChangelogFlag = "SKIP_CHANGELOG_CHECK"

var gitCommit = regexp.MustCompile(`\bgit\s+commit\b`)

// ChangelogReminder is a preToolUse hook that blocks commits of meaningful
// changes that leave CHANGELOG.md unstaged.
var ChangelogReminder = Hook{
	Name: "changelog-reminder",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if env.Var(SkipChangelogFlag) == "1" || input.ToolName != "Bash" {
			return Allow(), nil
		}
		cmd := input.Command()
		if Bypassed(env, SkipChangelogFlag, cmd) || !gitCommit.MatchString(cmd) {
			return Allow(), nil
		}

		staged, err := env.Git.StagedFiles(ctx)
		if err != nil {
			env.Log.Debug().Err(err).Msg("staged files unavailable")
			return Allow(), nil
		}
		meaningful := MeaningfulFiles(staged)
		if len(meaningful) == 0 || changelogStaged(staged) {
			return Allow(), nil
		}
		return Block(changelogMessage(env, meaningful)), nil
	},
}

// IsMeaningful reports whether a staged path is a change worth a changelog
// entry. Tests, CI config, caches, .claude/ and markdown are not.
func IsMeaningful(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	under := func(dir string) bool {
		return strings.HasPrefix(path, dir+"/") || strings.Contains(path, "/"+dir+"/")
	}
	named := func(name string) bool {
		return path == name || strings.HasSuffix(path, "/"+name)
	}
	switch {
	case under("tests"), under(".github"), under(".claude"):
		return false
	case strings.Contains(path, "__pycache__"), strings.HasSuffix(path, ".pyc"):
		return false
	case named(".gitignore"), named("conftest.py"):
		return false
	case strings.HasSuffix(strings.ToLower(path), ".md"):
		return false
	}
	return true
}

func MeaningfulFiles(paths []string) []string {
	var out []string
	for _, p := range paths {
		if IsMeaningful(p) {
			out = append(out, p)
		}
	}
	return out
}

func changelogStaged(paths []string) bool {
	for _, p := range paths {
		if strings.Contains(p, "CHANGELOG.md") {
			return true
		}
	}
	return false
}

func changelogMessage(env *Env, files []string) string {
	p := env.Palette
	var b strings.Builder
	b.WriteString(p.Red("❌ Meaningful changes without CHANGELOG.md update!") + "\n\n")
	b.WriteString(p.Yellow("📝 Staged files requiring changelog:") + "\n")
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "   - %s", f)
	}
	b.WriteString("\n\n" + p.Blue("💡 Options:"))
	b.WriteString("\n   1. Update CHANGELOG.md, then retry commit")
	fmt.Fprintf(&b, "\n   2. %s git commit ...", p.Green(SkipChangelogFlag+"=1"))
	return b.String()
}
