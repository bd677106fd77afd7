package hooks

import (
	"context"
	"fmt"
	"path/filepath"

	"agenthooks/internal/triggers"
)

// TriggersFileEnv points at the system trigger config, overriding the
// ~/.claude/prompt-triggers.* lookup.
const TriggersFileEnv = "HOOK_TRIGGERS_FILE"

// PromptFlagAppender is a userPromptSubmit hook that replaces trailing
// "+name" triggers, plus any active session modes, with their configured
// fragments. It prints the rewritten prompt and fails closed.
var PromptFlagAppender = Hook{
	Name:       "prompt-flag-appender",
	FailClosed: true,
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		prompt, err := input.Prompt()
		if err != nil {
			return Fail(err.Error()), err
		}
		cfg := LoadTriggers(env)
		claudeDir := ""
		if env.ProjectDir != "" {
			claudeDir = filepath.Join(env.ProjectDir, ".claude")
		}
		return AllowMsg(triggers.Expand(prompt, claudeDir, cfg)), nil
	},
}

// LoadTriggers merges the system and project trigger configs. Parse errors
// are logged and that source is ignored.
func LoadTriggers(env *Env) *triggers.Config {
	system := env.Var(TriggersFileEnv)
	if system == "" && env.HomeDir != "" {
		system = triggers.FindFile(filepath.Join(env.HomeDir, ".claude"))
	}
	project := ""
	if env.ProjectDir != "" {
		project = triggers.FindFile(filepath.Join(env.ProjectDir, ".claude"))
	}
	return triggers.Load(system, project, func(path string, err error) {
		env.Log.Warn().Err(err).Str("path", path).Msg("ignoring trigger config")
		env.warn(fmt.Sprintf("prompt-flag-appender warning: %v", err))
	})
}
