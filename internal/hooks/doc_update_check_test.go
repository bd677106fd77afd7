package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	yes   bool
	err   error
	calls []string
}

func (f *fakeClassifier) IsMergeToMain(_ context.Context, cmd string) (bool, error) {
	f.calls = append(f.calls, cmd)
	return f.yes, f.err
}

func TestIsMergeToMainPattern(t *testing.T) {
	tests := []struct {
		cmd    string
		branch string
		want   bool
	}{
		{"gh pr merge 42 --squash", "feature", true},
		{"  gh pr merge", "", true},
		{"git merge feature", "main", true},
		{"git merge feature", "feature", false},
		{"git checkout main && git merge feature", "feature", true},
		{"git checkout main; git merge feature", "feature", true},
		{"git checkout feature && git merge main", "feature", false},
		{"git commit -m 'merge fix'", "main", false},
		{"git log --oneline | grep merge", "main", false},
	}
	for _, tt := range tests {
		if got := IsMergeToMainPattern(tt.cmd, tt.branch); got != tt.want {
			t.Errorf("IsMergeToMainPattern(%q, %q) = %v, want %v", tt.cmd, tt.branch, got, tt.want)
		}
	}
}

func TestMergeTarget(t *testing.T) {
	tests := []struct {
		cmd  string
		want string
	}{
		{"git merge feature", "feature"},
		{"git merge --no-ff feature", "feature"},
		{"git merge -m 'msg' feature", "feature"},
		{"git merge --squash", ""},
		{"git status", ""},
		{"git checkout main && git merge topic/x", "topic/x"},
	}
	for _, tt := range tests {
		if got := MergeTarget(tt.cmd); got != tt.want {
			t.Errorf("MergeTarget(%q) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestDocFiles_IgnorePatterns(t *testing.T) {
	ignore := ParseIgnorePatterns([]byte("# generated\n\ndocs/generated/\nCHANGELOG.md\nnotes/*.md\n"))
	require.Len(t, ignore, 3)

	changed := []string{
		"src/a.go",
		"README.md",
		"CHANGELOG.md",
		"docs/generated/api/index.md",
		"notes/today.md",
		"notes/2025/today.md",
		"GUIDE.MD",
	}
	assert.Equal(t, []string{"README.md", "notes/2025/today.md", "GUIDE.MD"}, DocFiles(changed, ignore))
	assert.Empty(t, DocFiles([]string{"a.go"}, nil))
}

func TestLoadIgnorePatterns(t *testing.T) {
	assert.Nil(t, LoadIgnorePatterns(""))
	dir := t.TempDir()
	assert.Nil(t, LoadIgnorePatterns(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DocCheckIgnoreFile), []byte("*.md\n"), 0644))
	assert.Len(t, LoadIgnorePatterns(dir), 1)
}

func TestDocUpdateCheck_BlocksWithoutDocs(t *testing.T) {
	env, _ := testEnv(t)
	git := &fakeGit{branch: "feature", diff: map[string][]string{"main...HEAD": {"src/a.go"}}}
	env.Git = git
	cls := &fakeClassifier{}

	code, _, stderr := run(DocUpdateCheck(cls), env, bash(t, "gh pr merge 7"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "❌ No documentation updates detected in this branch.")
	assert.Contains(t, stderr, "SKIP_DOC_CHECK=1 git merge <branch>")
	assert.Contains(t, stderr, "🔍 Branch diff: git diff main...HEAD --name-only")
	assert.Equal(t, []string{"main...HEAD"}, git.diffRevs)
	assert.Empty(t, cls.calls, "pattern match needs no classifier")
}

func TestDocUpdateCheck_DiffsMergeTargetOnMain(t *testing.T) {
	env, _ := testEnv(t)
	git := &fakeGit{branch: "main", diff: map[string][]string{"feature-x": {"docs/usage.md"}}}
	env.Git = git

	code, _, _ := run(DocUpdateCheck(&fakeClassifier{}), env, bash(t, "git merge --no-ff feature-x"))
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"feature-x"}, git.diffRevs)
}

func TestDocUpdateCheck_IgnoredDocsDoNotCount(t *testing.T) {
	env, _ := testEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.ProjectDir, DocCheckIgnoreFile), []byte("CHANGELOG.md\n"), 0644))
	env.Git = &fakeGit{branch: "feature", diff: map[string][]string{"main...HEAD": {"CHANGELOG.md", "a.go"}}}

	code, _, _ := run(DocUpdateCheck(&fakeClassifier{}), env, bash(t, "gh pr merge"))
	assert.Equal(t, 2, code)
}

func TestDocUpdateCheck_Allows(t *testing.T) {
	tests := []struct {
		name string
		git  *fakeGit
		cmd  string
	}{
		{"docs changed", &fakeGit{diff: map[string][]string{"main...HEAD": {"a.go", "README.md"}}}, "gh pr merge"},
		{"diff fails", &fakeGit{diffErr: errors.New("unknown revision")}, "gh pr merge"},
		{"not a merge", &fakeGit{}, "git status"},
		{"inline bypass", &fakeGit{}, "SKIP_DOC_CHECK=1 gh pr merge"},
		{"no branch", &fakeGit{branchErr: errors.New("detached")}, "git merge feature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := testEnv(t)
			env.Git = tt.git
			code, _, stderr := run(DocUpdateCheck(&fakeClassifier{yes: true}), env, bash(t, tt.cmd))
			assert.Equal(t, 0, code)
			assert.Empty(t, stderr)
		})
	}
}

func TestDocUpdateCheck_Classifier(t *testing.T) {
	const cmd = "git pull origin feature --no-rebase && echo merged"

	t.Run("off by default", func(t *testing.T) {
		env, _ := testEnv(t)
		cls := &fakeClassifier{yes: true}
		code, _, _ := run(DocUpdateCheck(cls), env, bash(t, cmd))
		assert.Equal(t, 0, code)
		assert.Empty(t, cls.calls)
	})

	t.Run("env enables", func(t *testing.T) {
		env, vars := testEnv(t)
		vars[DocCheckAIEnv] = "1"
		env.Git = &fakeGit{diff: map[string][]string{"main...HEAD": {"a.go"}}}
		cls := &fakeClassifier{yes: true}
		code, _, _ := run(DocUpdateCheck(cls), env, bash(t, cmd))
		assert.Equal(t, 2, code)
		assert.Equal(t, []string{cmd}, cls.calls)
	})

	t.Run("flag file enables", func(t *testing.T) {
		env, _ := testEnv(t)
		flag := filepath.Join(env.ProjectDir, docCheckAIFlag)
		require.NoError(t, os.MkdirAll(filepath.Dir(flag), 0755))
		require.NoError(t, os.WriteFile(flag, nil, 0644))
		cls := &fakeClassifier{yes: false}
		code, _, _ := run(DocUpdateCheck(cls), env, bash(t, cmd))
		assert.Equal(t, 0, code)
		assert.Len(t, cls.calls, 1)
	})

	t.Run("needs keyword", func(t *testing.T) {
		env, vars := testEnv(t)
		vars[DocCheckAIEnv] = "1"
		cls := &fakeClassifier{yes: true}
		run(DocUpdateCheck(cls), env, bash(t, "git pull --rebase"))
		assert.Empty(t, cls.calls)

		vars[DocCheckKeywordsEnv] = " pull ,"
		run(DocUpdateCheck(cls), env, bash(t, "git pull --rebase"))
		assert.Len(t, cls.calls, 1)
	})

	t.Run("error allows", func(t *testing.T) {
		env, vars := testEnv(t)
		vars[DocCheckAIEnv] = "1"
		env.Git = &fakeGit{diff: map[string][]string{"main...HEAD": {"a.go"}}}
		code, _, _ := run(DocUpdateCheck(&fakeClassifier{err: errors.New("timeout")}), env, bash(t, cmd))
		assert.Equal(t, 0, code)
	})
}
