package hooks

import (
	"context"
	"regexp"
	"strings"
)

var generatedMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?im)🤖\s*Generated with\s*\[Claude Code\]`),
	regexp.MustCompile(`(?im)Co-Authored-By:\s*Claude\s*<noreply@anthropic\.com>`),
	regexp.MustCompile(`(?im)Generated with.*Claude.*Code`),
	regexp.MustCompile(`(?im)Claude\s*<noreply@anthropic\.com>`),
}

// CommitMessageFilter is a preToolUse hook that blocks commits whose message
// carries generated attribution.
var CommitMessageFilter = Hook{
	Name: "git-commit-message-filter",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if input.ToolName != "Bash" {
			return Allow(), nil
		}
		if HasGeneratedMarker(input.Command()) {
			return Block(env.Palette.Red("❌ Commit message contains auto-generated Claude markers. Please use a custom commit message.")), nil
		}
		return Allow(), nil
	},
}

// HasGeneratedMarker reports a `git commit` command with an attribution
// marker in it.
func HasGeneratedMarker(cmd string) bool {
	if !strings.Contains(cmd, "git commit") {
		return false
	}
	for _, re := range generatedMarkers {
		if re.MatchString(cmd) {
			return true
		}
	}
	return false
}
