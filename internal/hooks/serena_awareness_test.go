package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func firstPrompt(t *testing.T, session string) string {
	return payload(t, map[string]any{"hook_event_name": "UserPromptSubmit", "session_id": session, "prompt": "hi"})
}

func TestDetectProject(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, NotProject, DetectProject(dir).Kind, "no .git")
	assert.Equal(t, NotProject, DetectProject("").Kind)

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	touch(t, filepath.Join(dir, "main.go"), "package main\n")
	touch(t, filepath.Join(dir, "tools", "gen.py"), "print(1)\n")
	touch(t, filepath.Join(dir, "node_modules", "x", "index.js"), "")

	s := DetectProject(dir)
	assert.Equal(t, CodeProject, s.Kind)
	assert.Equal(t, []string{"Python", "Go"}, s.Languages)

	touch(t, filepath.Join(dir, serenaProjectFile), "project_name: \"my-app\"\nlanguage: go\n")
	s = DetectProject(dir)
	assert.Equal(t, ConfiguredProject, s.Kind)
	assert.Equal(t, "my-app", s.Name)
}

func TestDetectProject_InvalidSerenaName(t *testing.T) {
	tests := map[string]string{
		"missing key": "language: go\n",
		"bad chars":   "project_name: \"my app; rm\"\n",
		"not yaml":    "project_name: [unclosed\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
			touch(t, filepath.Join(dir, serenaProjectFile), body)
			assert.Equal(t, CodeProject, DetectProject(dir).Kind)
		})
	}
}

func TestSerenaAwareness_OncePerSession(t *testing.T) {
	env, _ := testEnv(t)
	require.NoError(t, os.Mkdir(filepath.Join(env.ProjectDir, ".git"), 0755))
	touch(t, filepath.Join(env.ProjectDir, "app.py"), "")
	touch(t, filepath.Join(env.ProjectDir, serenaProjectFile), "project_name: demo\n")

	id := uuid.NewString()
	code, stdout, _ := run(SerenaAwareness, env, firstPrompt(t, id))
	assert.Equal(t, 0, code)
	assert.Equal(t, "## Serena Project Detected\n"+
		".serena/ with project \"demo\" found.\n"+
		"Configured languages: python\n"+
		"If Serena MCP is available: `activate_project`\n", stdout)

	_, stdout, _ = run(SerenaAwareness, env, firstPrompt(t, id))
	assert.Empty(t, stdout, "second prompt of the session is silent")

	_, stdout, _ = run(SerenaAwareness, env, firstPrompt(t, uuid.NewString()))
	assert.NotEmpty(t, stdout, "a new session sees it again")
}

func TestSerenaAwareness_CodeProject(t *testing.T) {
	env, _ := testEnv(t)
	require.NoError(t, os.Mkdir(filepath.Join(env.ProjectDir, ".git"), 0755))

	_, stdout, _ := run(SerenaAwareness, env, firstPrompt(t, uuid.NewString()))
	assert.Equal(t, "## Code Project Detected\n"+
		"Detected languages: none detected\n"+
		"If Serena MCP is available, consider `onboarding` for semantic code navigation.\n", stdout)
}

func TestSerenaAwareness_Aggressive(t *testing.T) {
	env, vars := testEnv(t)
	require.NoError(t, os.Mkdir(filepath.Join(env.ProjectDir, ".git"), 0755))
	touch(t, filepath.Join(env.ProjectDir, "lib.rs"), "")

	vars[SerenaAggressiveEnv] = "1"
	_, stdout, _ := run(SerenaAwareness, env, firstPrompt(t, uuid.NewString()))
	assert.Contains(t, stdout, "Detected languages: Rust")
	assert.Contains(t, stdout, "**Run `onboarding` to enable Serena MCP for semantic code navigation.**")
	assert.Contains(t, stdout, "DO NOT use Grep/Glob for code symbol operations.\n</MANDATORY>")

	delete(vars, SerenaAggressiveEnv)
	touch(t, filepath.Join(env.ProjectDir, serenaAggressiveFlag), "")
	touch(t, filepath.Join(env.ProjectDir, serenaProjectFile), "project_name: core\n")
	_, stdout, _ = run(SerenaAwareness, env, firstPrompt(t, uuid.NewString()))
	assert.Contains(t, stdout, "Project: core (rust)")
	assert.Contains(t, stdout, "**Serena MCP is REQUIRED for all code exploration in this project.**")
	assert.Contains(t, stdout, "Action: Run `activate_project` now if not already active.")
}

func TestSerenaAwareness_Quiet(t *testing.T) {
	env, _ := testEnv(t)

	code, stdout, _ := run(SerenaAwareness, env, firstPrompt(t, uuid.NewString()))
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout, "not a project")

	require.NoError(t, os.Mkdir(filepath.Join(env.ProjectDir, ".git"), 0755))
	_, stdout, _ = run(SerenaAwareness, env, firstPrompt(t, ""))
	assert.Empty(t, stdout, "no session id")

	code, stdout, _ = run(SerenaAwareness, env, firstPrompt(t, "../escape"))
	assert.Equal(t, 0, code, "bad session ids fail open")
	assert.Empty(t, stdout)
}
