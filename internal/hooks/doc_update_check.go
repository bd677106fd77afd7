package hooks

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

const (
	SkipDocFlag = "SKIP_DOC_CHECK"
	// DocCheckAIEnv enables the classifier fallback.
	DocCheckAIEnv = "DOC_CHECK_USE_AI"
	// DocCheckKeywordsEnv overrides the comma-separated keywords a command
	// must contain before the classifier is consulted.
	DocCheckKeywordsEnv = "DOC_CHECK_AI_KEYWORDS"
	DocCheckIgnoreFile  = ".doc-check-ignore"
	docCheckAIFlag      = ".claude/hook-doc-check-ai-mode-on"
	defaultAIKeywords   = "merge,gh"
	defaultBranchDiff   = "main...HEAD"
)

var (
	ghPRMerge        = regexp.MustCompile(`^\s*gh\s+pr\s+merge\b`)
	gitSubcommand    = regexp.MustCompile(`^\s*git\s+(\w+)`)
	checkoutMainThen = regexp.MustCompile(`checkout\s+main\s*(?:&&|;|$).*merge`)
)

// MergeClassifier decides whether a command merges into main when the
// patterns are not conclusive.
type MergeClassifier interface {
	IsMergeToMain(ctx context.Context, command string) (bool, error)
}

// ClaudeClassifier asks the claude CLI.
type ClaudeClassifier struct {
	Bin     string
	Model   string
	Timeout time.Duration
}

// DefaultClassifier runs `claude --model haiku -p` with a 15s timeout.
func DefaultClassifier() *ClaudeClassifier {
	return &ClaudeClassifier{Bin: "claude", Model: "haiku", Timeout: 15 * time.Second}
}

const classifierPrompt = `Analyze this bash command. Does it merge changes INTO the main or master branch (as the target/destination)?

Examples of YES:
- git checkout main && git merge feature (merges feature INTO main)
- gh pr merge 123 (merges PR INTO default branch)
- git merge feature (when on main branch)

Examples of NO:
- git checkout feature && git merge main (merges main INTO feature)
- git commit -m "merge fix" (just a commit message)
- git log --oneline | grep merge (just searching)

Command: %s

Answer ONLY "yes" or "no".`

func (c *ClaudeClassifier) IsMergeToMain(ctx context.Context, command string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, c.Bin, "--model", c.Model, "-p", fmt.Sprintf(classifierPrompt, command)).Output()
	if err != nil {
		return false, fmt.Errorf("claude classifier: %w", err)
	}
	return strings.Contains(strings.ToLower(string(out)), "yes"), nil
}

// DocUpdateCheck is a preToolUse hook that blocks merges into main when the
// branch touches no markdown documentation. A nil classifier uses
// DefaultClassifier.
func DocUpdateCheck(classifier MergeClassifier) Hook {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return Hook{
		Name: "doc-update-check",
		Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
			return docUpdateCheck(ctx, env, input, classifier)
		},
	}
}

func docUpdateCheck(ctx context.Context, env *Env, input HookInput, classifier MergeClassifier) (HookResult, error) {
	if env.Var(SkipDocFlag) == "1" || input.ToolName != "Bash" {
		return Allow(), nil
	}
	cmd := input.Command()
	if Bypassed(env, SkipDocFlag, cmd) {
		return Allow(), nil
	}

	branch, err := env.Git.CurrentBranch(ctx)
	if err != nil {
		branch = ""
	}
	if !isMergeToMain(ctx, env, cmd, branch, classifier) {
		return Allow(), nil
	}

	rev := defaultBranchDiff
	if branch == "main" {
		if target := MergeTarget(cmd); target != "" {
			rev = target
		}
	}
	changed, err := env.Git.DiffNames(ctx, rev)
	if err != nil {
		env.Log.Warn().Err(err).Str("rev", rev).Msg("branch diff unavailable")
		return Allow(), nil
	}

	docs := DocFiles(changed, LoadIgnorePatterns(env.ProjectDir))
	if len(docs) > 0 {
		return Allow(), nil
	}
	return Block(docUpdateMessage(env)), nil
}

// IsMergeToMainPattern is the pattern pass: `gh pr merge`, `git merge` while
// on main, or a checkout of main followed by a merge.
func IsMergeToMainPattern(cmd, branch string) bool {
	if ghPRMerge.MatchString(cmd) {
		return true
	}
	if m := gitSubcommand.FindStringSubmatch(cmd); m != nil && m[1] == "merge" && branch == "main" {
		return true
	}
	return checkoutMainThen.MatchString(cmd)
}

func isMergeToMain(ctx context.Context, env *Env, cmd, branch string, classifier MergeClassifier) bool {
	if IsMergeToMainPattern(cmd, branch) {
		return true
	}
	if !aiModeEnabled(env) || !hasKeyword(cmd, aiKeywords(env)) {
		return false
	}
	yes, err := classifier.IsMergeToMain(ctx, cmd)
	if err != nil {
		env.Log.Warn().Err(err).Msg("classifier failed")
		return false
	}
	return yes
}

func aiModeEnabled(env *Env) bool {
	if env.Var(DocCheckAIEnv) == "1" {
		return true
	}
	if env.ProjectDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(env.ProjectDir, docCheckAIFlag))
	return err == nil
}

func aiKeywords(env *Env) []string {
	raw := env.Var(DocCheckKeywordsEnv)
	if strings.TrimSpace(raw) == "" {
		raw = defaultAIKeywords
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func hasKeyword(cmd string, keywords []string) bool {
	lower := strings.ToLower(cmd)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// MergeTarget returns the first non-flag argument after "merge", skipping
// the value of -m, or "".
func MergeTarget(cmd string) string {
	parts := strings.Fields(cmd)
	idx := -1
	for i, p := range parts {
		if p == "merge" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}
	for i := idx + 1; i < len(parts); i++ {
		p := parts[i]
		if !strings.HasPrefix(p, "-") {
			return p
		}
		if p == "-m" && i+1 < len(parts) {
			i++
		}
	}
	return ""
}

// LoadIgnorePatterns reads projectDir/.doc-check-ignore. Patterns use '/'
// as separator: `*` stays within a directory, `**` crosses directories and a
// trailing '/' covers everything below. Invalid patterns are skipped.
func LoadIgnorePatterns(projectDir string) []glob.Glob {
	if projectDir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(projectDir, DocCheckIgnoreFile))
	if err != nil {
		return nil
	}
	return ParseIgnorePatterns(data)
}

func ParseIgnorePatterns(data []byte) []glob.Glob {
	var out []glob.Glob
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			line += "**"
		}
		g, err := glob.Compile(line, '/')
		if err != nil {
			continue
		}
		out = append(out, g)
	}
	return out
}

// DocFiles keeps the markdown files not matched by an ignore pattern.
func DocFiles(changed []string, ignore []glob.Glob) []string {
	var out []string
next:
	for _, f := range changed {
		if !strings.HasSuffix(strings.ToLower(f), ".md") {
			continue
		}
		for _, g := range ignore {
			if g.Match(f) {
				continue next
			}
		}
		out = append(out, f)
	}
	return out
}

func docUpdateMessage(env *Env) string {
	p := env.Palette
	var b strings.Builder
	b.WriteString(p.Red("❌ No documentation updates detected in this branch.") + "\n\n")
	b.WriteString(p.Yellow("📝 Files checked:") + " CHANGELOG.md, README.md, *.md (excluding .doc-check-ignore patterns)\n\n")
	b.WriteString(p.Blue("💡 Options:"))
	b.WriteString("\n   1. Update relevant documentation, then retry merge")
	b.WriteString("\n   2. If no docs needed, ask user to confirm, then run:")
	fmt.Fprintf(&b, "\n      %s git merge <branch>\n\n", p.Green(SkipDocFlag+"=1"))
	b.WriteString(p.Cyan("🔍 Branch diff:") + " git diff main...HEAD --name-only")
	return b.String()
}
