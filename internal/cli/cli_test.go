package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenthooks/internal/config"
	"agenthooks/internal/triggers"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLAUDE_PROJECT_DIR", "")
	t.Setenv("HOOK_DISABLED", "")
	t.Setenv("LARGE_FILE_THRESHOLD", "")
	return t.TempDir()
}

func readSettings(t *testing.T, dir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, config.SettingsFile))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc")
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "hooks 1.2.3\ncommit: abc\n", out)
}

func TestList(t *testing.T) {
	dir := isolate(t)
	_, err := config.SetHookDisabled(dir, "release-check", true)
	require.NoError(t, err)

	out, err := execute(t, "", "list", "--project", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"HOOK", "EVENTS", "STATE"}, strings.Fields(lines[0]))

	rows := map[string][]string{}
	for _, l := range lines[1:] {
		f := strings.Fields(l)
		rows[f[0]] = f[1:]
	}
	assert.Len(t, rows, 14)
	assert.Equal(t, []string{"PreToolUse", "disabled"}, rows["release-check"])
	assert.Equal(t, []string{"SessionStart,UserPromptSubmit", "enabled"}, rows["rules-reminder"])
}

func TestList_UnregisteredHooks(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, config.Save(filepath.Join(dir, config.RegistryFile), &config.Config{
		Version:    1,
		PreToolUse: []config.HookEntry{{Name: "git-safety-check", Matcher: "Bash"}},
	}))

	states, err := hookStates(dir)
	require.NoError(t, err)
	byName := map[string]hookState{}
	for _, s := range states {
		byName[s.Name] = s
	}
	assert.True(t, byName["git-safety-check"].Registered)
	assert.False(t, byName["release-check"].Registered)
	assert.Empty(t, byName["release-check"].Events)
}

func TestDisableEnable(t *testing.T) {
	dir := isolate(t)
	disabledFile := filepath.Join(dir, config.DisabledHooksFile)

	out, err := execute(t, "", "disable", "--project", dir, "git-safety-check", "release-check")
	require.NoError(t, err)
	assert.Equal(t, "git-safety-check disabled\nrelease-check disabled\n", out)
	data, err := os.ReadFile(disabledFile)
	require.NoError(t, err)
	assert.Equal(t, "git-safety-check\nrelease-check\n", string(data))

	out, err = execute(t, "", "disable", "--project", dir, "release-check")
	require.NoError(t, err)
	assert.Equal(t, "release-check already disabled\n", out)

	out, err = execute(t, "", "enable", "--project", dir, "git-safety-check")
	require.NoError(t, err)
	assert.Equal(t, "git-safety-check enabled\n", out)
	data, err = os.ReadFile(disabledFile)
	require.NoError(t, err)
	assert.Equal(t, "release-check\n", string(data))
}

func TestDisable_UnknownHook(t *testing.T) {
	dir := isolate(t)
	_, err := execute(t, "", "disable", "--project", dir, "no-such-hook")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown hook "no-such-hook"`)
	assert.NoFileExists(t, filepath.Join(dir, config.DisabledHooksFile))

	_, err = execute(t, "", "disable", "--project", dir, "--force", "legacy-hook")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.DisabledHooksFile))
}

func TestGenConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".claude"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(`{"model": "opus"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.RegistryFile), []byte(`
version: 1
env:
  LARGE_FILE_THRESHOLD: "800"
sessionStart:
  - environment-awareness
preToolUse:
  - name: large-file-guard
    matcher: Read
  - name: release-check
    matcher: Bash
    enabled: false
`), 0644))

	out, err := execute(t, "", "gen-config", "--project", dir, "--bin-dir", "/opt/hooks/bin", "--skip-validate")
	require.NoError(t, err)
	assert.Equal(t, "wrote "+filepath.Join(dir, config.SettingsFile)+"\n", out)

	doc := readSettings(t, dir)
	assert.Equal(t, "opus", doc["model"])
	assert.Equal(t, map[string]any{"LARGE_FILE_THRESHOLD": "800"}, doc["env"])
	section := doc["hooks"].(map[string]any)
	pre := section["PreToolUse"].([]any)
	require.Len(t, pre, 1)
	group := pre[0].(map[string]any)
	assert.Equal(t, "Read", group["matcher"])
	cmds := group["hooks"].([]any)
	require.Len(t, cmds, 1)
	assert.Equal(t, "/opt/hooks/bin/large-file-guard", cmds[0].(map[string]any)["command"])
	assert.Contains(t, section, "SessionStart")
}

func TestGenConfig_Validation(t *testing.T) {
	dir := isolate(t)
	bin := t.TempDir()

	_, err := execute(t, "", "gen-config", "--project", dir, "--bin-dir", bin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binary not found")
	assert.NoFileExists(t, filepath.Join(dir, config.SettingsFile))

	for _, name := range config.Default().HookNames() {
		require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\n"), 0755))
	}
	_, err = execute(t, "", "gen-config", "--project", dir, "--bin-dir", bin)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.SettingsFile))

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.RegistryFile), []byte("preToolUse:\n  - name: mystery\n"), 0644))
	_, err = execute(t, "", "gen-config", "--project", dir, "--skip-validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `hook "mystery": not a known hook`)
}

func TestInit(t *testing.T) {
	dir := isolate(t)
	home := os.Getenv("HOME")

	out, err := execute(t, "", "init", dir, "--bin-dir", "/opt/hooks/bin")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+filepath.Join(dir, config.RegistryFile))
	assert.Contains(t, out, "wrote "+filepath.Join(home, ".claude", "prompt-triggers.toml"))

	registry, err := os.ReadFile(filepath.Join(dir, config.RegistryFile))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultYAML, registry)
	trig, err := os.ReadFile(filepath.Join(home, ".claude", "prompt-triggers.toml"))
	require.NoError(t, err)
	assert.Equal(t, triggers.DefaultTOML, trig)
	assert.Contains(t, readSettings(t, dir), "hooks")

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.RegistryFile), []byte("version: 1\nsessionStart: [rules-reminder]\n"), 0644))
	out, err = execute(t, "", "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "kept "+filepath.Join(dir, config.RegistryFile))
	assert.NotContains(t, out, "prompt-triggers.toml")
}

func TestScan(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "", "scan", dir, "--threshold", "50")
	require.NoError(t, err)
	assert.Equal(t, "no files over 50 lines\n", out)

	body := strings.Repeat("x = 1\n", 60)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.py"), []byte(body), 0644))
	out, err = execute(t, "", "scan", dir, "--threshold", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "## Large Files (symbolic navigation required)")
	assert.Contains(t, out, "big.py (60 lines, ~102 tokens) → Serena")
}

func TestRun(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CLAUDE_PROJECT_DIR", dir)

	out, err := execute(t, `{"tool_name": "Bash", "tool_input": {"command": "git commit --no-verify"}}`, "run", "git-safety-check")
	var exit *ExitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 2, exit.Code)
	assert.Contains(t, out, "--no-verify to skip Git hooks is prohibited")

	out, err = execute(t, `{"tool_name": "Bash", "tool_input": {"command": "git status"}}`, "run", "git-safety-check")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = execute(t, "{}", "run", "nope")
	require.Error(t, err)
	assert.False(t, errors.As(err, &exit))
}

func TestRun_RespectsDisabledHooks(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CLAUDE_PROJECT_DIR", dir)
	_, err := config.SetHookDisabled(dir, "git-safety-check", true)
	require.NoError(t, err)

	out, err := execute(t, `{"tool_name": "Bash", "tool_input": {"command": "git commit --no-verify"}}`, "run", "git-safety-check")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, keys ...string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m, cmd
}

func TestToggleModel(t *testing.T) {
	states := []hookState{
		{Name: "a", Events: []string{"PreToolUse"}, Registered: true},
		{Name: "b", Events: []string{"SessionStart"}, Registered: true, Disabled: true},
		{Name: "c"},
	}
	var m tea.Model = newToggleModel(states)

	m, cmd := press(m, "down", "down", "down", "up", "t")
	assert.Nil(t, cmd)
	tm := m.(toggleModel)
	assert.Equal(t, 1, tm.cursor)
	assert.False(t, tm.states[1].Disabled)
	assert.True(t, tm.dirty)
	assert.Contains(t, tm.View(), "(unsaved changes)")
	assert.Contains(t, tm.View(), "c (unregistered)")

	m, cmd = press(m, "k", "t", "s")
	require.NotNil(t, cmd)
	tm = m.(toggleModel)
	assert.True(t, tm.saved)
	assert.True(t, tm.states[0].Disabled)

	_, cmd = press(newToggleModel(nil), "t", "q")
	assert.NotNil(t, cmd)
}

func TestApplyStates(t *testing.T) {
	dir := isolate(t)
	_, err := config.SetHookDisabled(dir, "b", true)
	require.NoError(t, err)

	changed, err := applyStates(dir, []hookState{
		{Name: "a", Disabled: true},
		{Name: "b", Disabled: false},
		{Name: "c", Disabled: false},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, changed)

	disabled := config.LoadDisabledHooks(dir, "")
	assert.True(t, disabled.Has("a"))
	assert.False(t, disabled.Has("b"))
}
