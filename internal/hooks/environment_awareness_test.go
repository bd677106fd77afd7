package hooks

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentContext(t *testing.T) {
	env, _ := testEnv(t)
	env.Now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC) }
	env.HomeDir = "/home/dev"
	env.ProjectDir = filepath.Join("/home/dev", "src", "app")

	out := environmentContext(env, "6.1.0")
	assert.Equal(t, "## Environment\n"+
		"- Date: 2025-03-14 (Friday)\n"+
		"- Time: 09:26 UTC\n"+
		"- OS: "+osName(runtime.GOOS)+" 6.1.0\n"+
		"- Directory: ~"+filepath.Join("/src", "app")+"\n", out)
}

func TestEnvironmentContext_FallsBackToWorkDir(t *testing.T) {
	env, _ := testEnv(t)
	env.ProjectDir = ""
	env.WorkDir = "/srv/build"
	env.HomeDir = "/home/dev"
	out := environmentContext(env, "")
	assert.Contains(t, out, "- Directory: /srv/build\n")
}

func TestOSName(t *testing.T) {
	tests := map[string]string{"darwin": "macOS", "linux": "Linux", "windows": "Windows", "freebsd": "Freebsd"}
	for goos, want := range tests {
		if got := osName(goos); got != want {
			t.Errorf("osName(%q) = %q, want %q", goos, got, want)
		}
	}
}

func TestEnvironmentAwareness_OnlySessionStart(t *testing.T) {
	env, _ := testEnv(t)
	code, stdout, _ := run(EnvironmentAwareness, env, payload(t, map[string]any{"hook_event_name": "UserPromptSubmit"}))
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)

	code, stdout, _ = run(EnvironmentAwareness, env, sessionStart(t))
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "## Environment\n- Date: 2025-03-14 (Friday)\n"))
}
