package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"agenthooks/internal/session"
)

const (
	SerenaAggressiveEnv  = "SERENA_AGGRESSIVE_MODE"
	serenaAggressiveFlag = ".claude/hook-serena-awareness-aggressive-on"
	serenaProjectFile    = ".serena/project.yml"
)

var serenaProjectName = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ProjectKind is what serena-awareness found in the project dir.
type ProjectKind int

const (
	NotProject ProjectKind = iota
	CodeProject
	ConfiguredProject
)

// ProjectState describes the project for the first-prompt message.
type ProjectState struct {
	Kind      ProjectKind
	Name      string
	Languages []string
}

// SerenaAwareness is a userPromptSubmit hook that, once per session, tells
// the assistant whether Serena is configured for the project.
var SerenaAwareness = Hook{
	Name: "serena-awareness",
	Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
		if input.SessionID == "" {
			return Allow(), nil
		}
		tracker := &session.Tracker{
			Dir: session.MarkersDir(env.ProjectDir, env.HomeDir, "serena-awareness"),
			Now: env.Now,
		}
		first, err := tracker.IsFirstPrompt(input.SessionID)
		if err != nil {
			return Allow(), fmt.Errorf("session marker: %w", err)
		}
		if !first {
			return Allow(), nil
		}

		state := DetectProject(env.ProjectDir)
		var out string
		if serenaAggressive(env) {
			out = aggressiveSerenaMessage(env, state)
		} else {
			out = serenaMessage(env, state)
		}
		if out == "" {
			return Allow(), nil
		}
		return AllowMsg(out), nil
	},
}

// DetectProject classifies projectDir. Without a .git entry it is not a
// project.
func DetectProject(projectDir string) ProjectState {
	if projectDir == "" {
		return ProjectState{}
	}
	if _, err := os.Stat(filepath.Join(projectDir, ".git")); err != nil {
		return ProjectState{}
	}
	state := ProjectState{Kind: CodeProject, Languages: DetectLanguages(projectDir)}
	if name := serenaName(filepath.Join(projectDir, serenaProjectFile)); name != "" {
		state.Kind = ConfiguredProject
		state.Name = name
	}
	return state
}

func serenaName(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var cfg struct {
		ProjectName string `yaml:"project_name"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ""
	}
	name := strings.TrimSpace(cfg.ProjectName)
	if !serenaProjectName.MatchString(name) {
		return ""
	}
	return name
}

func serenaAggressive(env *Env) bool {
	if env.Var(SerenaAggressiveEnv) == "1" {
		return true
	}
	if env.ProjectDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(env.ProjectDir, serenaAggressiveFlag))
	return err == nil
}

func languageList(langs []string, lower bool) string {
	if len(langs) == 0 {
		return "none detected"
	}
	s := strings.Join(langs, ", ")
	if lower {
		s = strings.ToLower(s)
	}
	return s
}

func serenaMessage(env *Env, s ProjectState) string {
	p := env.Palette
	switch s.Kind {
	case ConfiguredProject:
		return fmt.Sprintf("## Serena Project Detected\n.serena/ with project \"%s\" found.\nConfigured languages: %s\nIf Serena MCP is available: %s",
			p.Cyan(s.Name), languageList(s.Languages, true), p.Green("`activate_project`"))
	case CodeProject:
		return fmt.Sprintf("## Code Project Detected\nDetected languages: %s\nIf Serena MCP is available, consider %s for semantic code navigation.",
			languageList(s.Languages, false), p.Green("`onboarding`"))
	}
	return ""
}

const serenaRequired = `<MANDATORY>
**Serena MCP is REQUIRED for all code exploration in this project.**

DO:
- ` + "`find_symbol`" + ` for locating classes, functions, methods
- ` + "`get_symbols_overview`" + ` for file structure
- ` + "`find_referencing_symbols`" + ` for usage/callers

DO NOT:
- Grep for function/class definitions
- Glob for finding code files by pattern
- Read entire files to find symbols

If you think "Grep is faster" or "this is a simple query" → WRONG. Use Serena.
</MANDATORY>`

const serenaOnboardingRequired = `After onboarding, Serena tools are REQUIRED for code exploration:
- ` + "`find_symbol`" + ` instead of Grep for definitions
- ` + "`get_symbols_overview`" + ` instead of reading files
- ` + "`find_referencing_symbols`" + ` for usage analysis

DO NOT use Grep/Glob for code symbol operations.
</MANDATORY>`

func aggressiveSerenaMessage(env *Env, s ProjectState) string {
	p := env.Palette
	switch s.Kind {
	case ConfiguredProject:
		return fmt.Sprintf("## Serena Project Active\nProject: %s (%s)\n\n%s\n\nAction: Run %s now if not already active.",
			p.Cyan(s.Name), languageList(s.Languages, true), serenaRequired, p.Green("`activate_project`"))
	case CodeProject:
		return fmt.Sprintf("## Code Project Detected\nDetected languages: %s\n\n<MANDATORY>\n**Run %s to enable Serena MCP for semantic code navigation.**\n\n%s",
			languageList(s.Languages, false), p.Green("`onboarding`"), serenaOnboardingRequired)
	}
	return ""
}
