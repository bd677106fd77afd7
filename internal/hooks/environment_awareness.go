package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const unameTimeout = 2 * time.Second

// EnvironmentAwareness is a sessionStart hook that tells the assistant the
// current date, time, OS and project directory.
var EnvironmentAwareness = Hook{
	Name: "environment-awareness",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if input.HookEventName != "SessionStart" {
			return Allow(), nil
		}
		return AllowMsg(environmentContext(env, osRelease(ctx))), nil
	},
}

func environmentContext(env *Env, release string) string {
	now := time.Now()
	if env.Now != nil {
		now = env.Now()
	}

	dir := env.BaseDir()
	if home := env.HomeDir; home != "" && strings.HasPrefix(dir, home) {
		dir = "~" + dir[len(home):]
	}

	return fmt.Sprintf("## Environment\n- Date: %s\n- Time: %s\n- OS: %s\n- Directory: %s\n",
		now.Format("2006-01-02 (Monday)"),
		now.Format("15:04 MST"),
		strings.TrimSpace(osName(runtime.GOOS)+" "+release),
		dir,
	)
}

func osName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "":
		return ""
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}

func osRelease(ctx context.Context) string {
	if runtime.GOOS == "windows" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, unameTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "uname", "-r").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
