package hooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	noVerifyFlag    = regexp.MustCompile(`(^|\s)--no-verify(\s|$)`)
	quotedMessage   = regexp.MustCompile(`(?s)-m\s+["'].*?["']`)
	eofHeredoc      = regexp.MustCompile(`(?s)<<["']?EOF["']?.*?EOF`)
	deletionTargets = []string{"main", "master", "production", "prod"}
	localDeletion   = map[string]*regexp.Regexp{}
)

func init() {
	for _, b := range deletionTargets {
		localDeletion[b] = regexp.MustCompile(`git\s+branch\s+-[dD]\s+` + regexp.QuoteMeta(b) + `(\s|$|&&|;|\|)`)
	}
}

// GitSafetyCheck is a preToolUse hook that blocks skipping git hooks and
// deleting protected branches.
var GitSafetyCheck = Hook{
	Name: "git-safety-check",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if input.ToolName != "Bash" {
			return Allow(), nil
		}
		cmd := input.Command()
		if !strings.Contains(cmd, "git") {
			return Allow(), nil
		}
		if SkipsGitHooks(cmd) {
			return Block(env.Palette.Red("❌ Using --no-verify to skip Git hooks is prohibited!")), nil
		}
		if b := DeletedProtectedBranch(cmd); b != "" {
			return Block(env.Palette.Red(fmt.Sprintf("❌ Blocked: Cannot delete protected branch '%s'", b))), nil
		}
		return Allow(), nil
	},
}

// SkipsGitHooks reports a --no-verify argument that is not quoted text in a
// -m message or an EOF heredoc.
func SkipsGitHooks(cmd string) bool {
	if !noVerifyFlag.MatchString(cmd) {
		return false
	}
	pos := strings.Index(cmd, "--no-verify")
	inside := func(re *regexp.Regexp) bool {
		loc := re.FindStringIndex(cmd)
		return loc != nil && loc[0] < pos && pos < loc[1]
	}
	return !inside(quotedMessage) && !inside(eofHeredoc)
}

// DeletedProtectedBranch returns the protected branch cmd deletes, locally
// or on origin, or "".
func DeletedProtectedBranch(cmd string) string {
	for _, b := range deletionTargets {
		if strings.Contains(cmd, "git push origin :"+b) || localDeletion[b].MatchString(cmd) {
			return b
		}
	}
	return ""
}
