package hooks

import (
	"context"
	"regexp"
)

// changeVerbs are prompt words that announce changes or planning work.
var changeVerbs = regexp.MustCompile(`(?i)\b(` +
	`implement|add|create|build|develop|write|make|introduce|setup|set up|` +
	`fix|refactor|update|change|modify|edit|adjust|improve|enhance|optimize|rewrite|rework|` +
	`remove|delete|clean ?up|deprecate|drop|` +
	`restructure|reorganize|redesign|migrate|convert|integrate|connect|configure|` +
	`brainstorm|design|plan|propose|architect|draft|outline|sketch|spec|specify|prototype` +
	`)\b`)

const rulesReminder = `## Project Rules Reminder

This project may have rules defined in:
- CLAUDE.md (project root and .claude/ directory)
- .claude/rules/* (rule files)

Review and follow all project rules strictly before making changes.`

// RulesReminder points the assistant at project rules at session start and
// whenever a prompt asks for changes.
var RulesReminder = Hook{
	Name: "rules-reminder",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		switch input.HookEventName {
		case "SessionStart":
			return AllowMsg(rulesReminder), nil
		case "UserPromptSubmit":
			if prompt, err := input.Prompt(); err == nil && changeVerbs.MatchString(prompt) {
				return AllowMsg(rulesReminder), nil
			}
		}
		return Allow(), nil
	},
}
