package hooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var protectedBranches = map[string]bool{
	"main": true, "master": true, "production": true, "prod": true,
}

var safeRedirectTargets = []string{"/dev/null", "/dev/stdout", "/dev/stderr"}

var (
	sedInPlace    = regexp.MustCompile(`sed\s+-i(?:\.\w+)?`)
	perlInPlace   = regexp.MustCompile(`perl\s+-i`)
	safeRedirect  = regexp.MustCompile(`>\s*/dev/(?:null|stdout|stderr)`)
	teeCommand    = regexp.MustCompile(`\btee\s+`)
	heredocToFile = regexp.MustCompile(`(?s)<<\w+.*?>`)
)

// GitBranchProtection is a preToolUse hook that blocks Edit and Write on a
// protected branch and asks for a second look at Bash commands that may write
// files there.
var GitBranchProtection = Hook{
	Name: "git-branch-protection",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		branch, err := env.Git.CurrentBranch(ctx)
		if err != nil {
			env.Log.Debug().Err(err).Msg("no current branch")
			return Allow(), nil
		}
		if !protectedBranches[branch] {
			return Allow(), nil
		}

		p := env.Palette
		switch input.ToolName {
		case "Edit", "Write":
			return Block(fmt.Sprintf("%s\n%s\n   git checkout -b feature/your-feature-name\n%s\n   echo \"git-branch-protection\" >> .claude/disabled-hooks",
				p.Red(fmt.Sprintf("❌ Cannot edit files on protected branch '%s'!", branch)),
				p.Yellow("📝 Create a feature branch first:"),
				p.Blue("💡 Or disable this hook:"),
			)), nil
		case "Bash":
			cmd := input.Command()
			patterns := FileWritePatterns(cmd)
			if len(patterns) == 0 {
				return Allow(), nil
			}
			return Warn(branchWriteQuestion(env, branch, cmd, patterns)), nil
		}
		return Allow(), nil
	},
}

// FileWritePatterns names the shell constructs in cmd that may write files:
// "sed -i", "perl -i", "redirect >", "redirect >>", "tee" and
// "heredoc redirect". Writes to /dev/null, /dev/stdout and /dev/stderr are
// ignored.
func FileWritePatterns(cmd string) []string {
	if cmd == "" {
		return nil
	}
	var found []string
	if sedInPlace.MatchString(cmd) {
		found = append(found, "sed -i")
	}
	if perlInPlace.MatchString(cmd) {
		found = append(found, "perl -i")
	}
	if name := redirectPattern(cmd); name != "" {
		found = append(found, name)
	}
	if loc := teeCommand.FindStringIndex(cmd); loc != nil {
		safe := false
		if fields := strings.Fields(cmd[loc[1]:]); len(fields) > 0 {
			safe = containsAny(fields[0], safeRedirectTargets)
		}
		if !safe {
			found = append(found, "tee")
		}
	}
	if loc := heredocToFile.FindStringIndex(cmd); loc != nil && !containsAny(cmd[loc[0]:], safeRedirectTargets) {
		found = append(found, "heredoc redirect")
	}
	return found
}

// redirectPattern finds the first '>' that does not point at a safe device
// and classifies it. It returns "" when no such redirect exists or a device
// redirect follows it.
func redirectPattern(cmd string) string {
	start := -1
	for i := 0; i < len(cmd); i++ {
		if cmd[i] != '>' {
			continue
		}
		if loc := safeRedirect.FindStringIndex(cmd[i:]); loc == nil || loc[0] != 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	if safeRedirect.MatchString(cmd[start:]) {
		return ""
	}
	end := start + 3
	if end > len(cmd) {
		end = len(cmd)
	}
	if strings.Contains(cmd[start:end], ">>") {
		return "redirect >>"
	}
	return "redirect >"
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func branchWriteQuestion(env *Env, branch, cmd string, patterns []string) string {
	p := env.Palette
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(p.Yellow("## Branch Protection Check") + "\n\n")
	fmt.Fprintf(&b, "You are on protected branch '%s'.\n\n", branch)
	b.WriteString("I detected patterns in your bash command that sometimes indicate file writing:\n")
	for _, name := range patterns {
		fmt.Fprintf(&b, "   - Pattern: `%s`\n", name)
	}
	fmt.Fprintf(&b, "\nCommand: `%s`\n\n", cmd)
	b.WriteString("However, pattern matching cannot reliably distinguish between:\n")
	b.WriteString("- Shell redirection (`echo \"x\" > file`) - writes to file\n")
	b.WriteString("- Quoted text (`git commit -m \"x > y\"`) - just text\n")
	b.WriteString("- Comparison operators (`awk '{if(x>5)}'`) - not a write\n\n")
	b.WriteString(p.Blue("Please verify:") + " Does this command actually write files on the protected branch?\n")
	b.WriteString("If yes, consider using the Edit tool or a feature branch instead.\n---")
	return b.String()
}
