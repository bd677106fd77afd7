package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const SkipReleaseFlag = "SKIP_RELEASE_CHECK"

var tagVersion = regexp.MustCompile(`git\s+tag\s+(?:-[a-z]\s+)?v(\d+\.\d+\.\d+)`)

// ReleaseCheck is a preToolUse hook that blocks `git tag vX.Y.Z` until
// CHANGELOG.md mentions X.Y.Z.
var ReleaseCheck = Hook{
	Name: "release-check",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if env.Var(SkipReleaseFlag) == "1" || input.ToolName != "Bash" {
			return Allow(), nil
		}
		cmd := input.Command()
		if Bypassed(env, SkipReleaseFlag, cmd) {
			return Allow(), nil
		}
		version := TagVersion(cmd)
		if version == "" || changelogHasVersion(filepath.Join(env.WorkDir, "CHANGELOG.md"), version) {
			return Allow(), nil
		}

		p := env.Palette
		return Block(fmt.Sprintf("%s\n\n%s\n   - Rename [Unreleased] section to [%s]\n   - Add release date\n\n%s SKIP_RELEASE_CHECK=1 git tag v%s",
			p.Red(fmt.Sprintf("❌ Version %s not found in CHANGELOG.md!", version)),
			p.Yellow("📝 Before tagging, update CHANGELOG.md:"),
			version,
			p.Blue("💡 Bypass:"),
			version,
		)), nil
	},
}

// TagVersion extracts X.Y.Z from a `git tag [-a] vX.Y.Z` command, or "".
func TagVersion(cmd string) string {
	if m := tagVersion.FindStringSubmatch(cmd); m != nil {
		return m[1]
	}
	return ""
}

// changelogHasVersion is true when the changelog mentions version or cannot
// be read.
func changelogHasVersion(path, version string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	return strings.Contains(string(data), version)
}
