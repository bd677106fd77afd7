package hooks

import (
	"context"
	"regexp"
)

var releaseKeywords = regexp.MustCompile(`(?i)\b(release|tag\s+v|version\s+bump|prepare\s+release|v\d+\.\d+\.)`)

const releaseReminder = `---
## Release Verification Required

Before tagging/releasing, ensure:
1. CHANGELOG.md has version section matching the release (not just [Unreleased])
2. All version files are synchronized (check project-specific: pyproject.toml, package.json, etc.)
3. Working tree is clean
4. You're on the correct branch

Confirm these checks before proceeding with git tag.
---`

// ReleaseReminder is a userPromptSubmit hook that adds a release checklist
// when the prompt talks about releasing or tagging.
var ReleaseReminder = Hook{
	Name: "release-reminder",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if input.HookEventName != "UserPromptSubmit" {
			return Allow(), nil
		}
		prompt, err := input.Prompt()
		if err != nil || !releaseKeywords.MatchString(prompt) {
			return Allow(), nil
		}
		return AllowMsg(releaseReminder), nil
	},
}
