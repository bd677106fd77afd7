package hooks

import (
	"context"
	"regexp"
	"strings"
)

var (
	directPythonTool = regexp.MustCompile(`^(pip|pip3|python|python3|pytest|pylint|flake8|black|mypy|isort|poetry|pipenv|conda|virtualenv|pyenv)\b`)
	uvOrVenv         = regexp.MustCompile(`^(python3?\s+-m\s+venv|uv\s+)`)
)

// PythonUVEnforcer is a preToolUse hook that blocks direct Python tooling
// in favour of uv.
var PythonUVEnforcer = Hook{
	Name: "python-uv-enforcer",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if input.ToolName != "Bash" {
			return Allow(), nil
		}
		cmd := input.Command()
		if !UsesPythonToolDirectly(cmd) {
			return Allow(), nil
		}
		p := env.Palette
		var b strings.Builder
		b.WriteString(p.Red("❌ Direct Python tool usage detected!") + "\n")
		b.WriteString(p.Yellow("📝 Command blocked:") + " " + cmd + "\n")
		b.WriteString(p.Green("✨ Use uv instead:"))
		b.WriteString("\n   " + UVSuggestion(cmd))
		b.WriteString("\n" + p.Blue("💡 Learn more:") + " https://github.com/astral-sh/uv")
		return Block(b.String()), nil
	},
}

// UsesPythonToolDirectly reports a command that starts with a Python tool
// other than `python -m venv`.
func UsesPythonToolDirectly(cmd string) bool {
	return directPythonTool.MatchString(cmd) && !uvOrVenv.MatchString(cmd)
}

// UVSuggestion returns the uv equivalent to show for cmd.
func UVSuggestion(cmd string) string {
	switch {
	case strings.Contains(cmd, "pip") && strings.Contains(cmd, "install"):
		return "uv pip install ..."
	case strings.HasPrefix(cmd, "python"):
		return "uv run python ..."
	case strings.HasPrefix(cmd, "pytest"):
		return "uv run pytest ..."
	case strings.HasPrefix(cmd, "black"):
		return "uv run black ..."
	case strings.HasPrefix(cmd, "mypy"):
		return "uv run mypy ..."
	}
	return "uv run " + cmd
}
