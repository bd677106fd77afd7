package hooks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMeaningful(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/app.py", true},
		{"cmd/hooks/main.go", true},
		{"tests/test_app.py", false},
		{"pkg/tests/helper.go", false},
		{".github/workflows/ci.yml", false},
		{".claude/settings.json", false},
		{"pkg/__pycache__/x.cpython-312.pyc", false},
		{"x.pyc", false},
		{".gitignore", false},
		{"sub/conftest.py", false},
		{"README.md", false},
		{"docs/Guide.MD", false},
		{"  ", false},
		{"testsuite/run.go", true},
	}
	for _, tt := range tests {
		if got := IsMeaningful(tt.path); got != tt.want {
			t.Errorf("IsMeaningful(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestChangelogReminder_Blocks(t *testing.T) {
	env, _ := testEnv(t)
	env.Git = &fakeGit{staged: []string{"src/a.go", "tests/a_test.py", "README.md"}}

	code, stdout, stderr := run(ChangelogReminder, env, bash(t, "git commit -m 'feat: a'"))
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "❌ Meaningful changes without CHANGELOG.md update!\n\n"+
		"📝 Staged files requiring changelog:\n"+
		"   - src/a.go\n\n"+
		"💡 Options:\n"+
		"   1. Update CHANGELOG.md, then retry commit\n"+
		"   2. SKIP_CHANGELOG_CHECK=1 git commit ...\n", stderr)
}

func TestChangelogReminder_Allows(t *testing.T) {
	tests := []struct {
		name string
		git  *fakeGit
		cmd  string
		vars map[string]string
	}{
		{"changelog staged", &fakeGit{staged: []string{"src/a.go", "CHANGELOG.md"}}, "git commit -m x", nil},
		{"only docs and tests", &fakeGit{staged: []string{"README.md", "tests/x.py"}}, "git commit -m x", nil},
		{"nothing staged", &fakeGit{}, "git commit -m x", nil},
		{"not a commit", &fakeGit{staged: []string{"src/a.go"}}, "git status", nil},
		{"inline bypass", &fakeGit{staged: []string{"src/a.go"}}, "SKIP_CHANGELOG_CHECK=1 git commit -m x", nil},
		{"env bypass", &fakeGit{staged: []string{"src/a.go"}}, "git commit -m x", map[string]string{SkipChangelogFlag: "1"}},
		{"git failure", &fakeGit{stagedErr: errors.New("not a repo")}, "git commit -m x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, vars := testEnv(t)
			env.Git = tt.git
			for k, v := range tt.vars {
				vars[k] = v
			}
			code, _, stderr := run(ChangelogReminder, env, bash(t, tt.cmd))
			assert.Equal(t, 0, code)
			assert.Empty(t, stderr)
		})
	}
}
