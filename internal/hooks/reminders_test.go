package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func promptPayload(t *testing.T, event, text string) string {
	return payload(t, map[string]any{"hook_event_name": event, "prompt": text})
}

func TestReleaseReminder(t *testing.T) {
	env, _ := testEnv(t)
	tests := []struct {
		prompt string
		want   bool
	}{
		{"let's cut a release", true},
		{"Prepare Release notes", true},
		{"tag v1.4.0 please", true},
		{"bump to v2.1.0", true},
		{"do a version bump", true},
		{"fix the parser", false},
	}
	for _, tt := range tests {
		code, stdout, _ := run(ReleaseReminder, env, promptPayload(t, "UserPromptSubmit", tt.prompt))
		assert.Equal(t, 0, code)
		if tt.want {
			assert.Equal(t, releaseReminder+"\n", stdout, tt.prompt)
		} else {
			assert.Empty(t, stdout, tt.prompt)
		}
	}

	_, stdout, _ := run(ReleaseReminder, env, promptPayload(t, "SessionStart", "release"))
	assert.Empty(t, stdout, "other events are ignored")
}

func TestRulesReminder(t *testing.T) {
	env, _ := testEnv(t)

	_, stdout, _ := run(RulesReminder, env, payload(t, map[string]any{"hook_event_name": "SessionStart"}))
	assert.Equal(t, rulesReminder+"\n", stdout)

	tests := []struct {
		prompt string
		want   bool
	}{
		{"Please refactor the handler", true},
		{"set up CI", true},
		{"let's clean up the tests", true},
		{"brainstorm some names", true},
		{"what does this function return?", false},
		{"explain the addition", false},
	}
	for _, tt := range tests {
		_, stdout, _ := run(RulesReminder, env, promptPayload(t, "UserPromptSubmit", tt.prompt))
		if tt.want {
			assert.Contains(t, stdout, "## Project Rules Reminder", tt.prompt)
		} else {
			assert.Empty(t, stdout, tt.prompt)
		}
	}

	_, stdout, _ = run(RulesReminder, env, payload(t, map[string]any{"hook_event_name": "PreToolUse", "tool_name": "Bash"}))
	assert.Empty(t, stdout)
}
