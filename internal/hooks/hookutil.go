package hooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"agenthooks/internal/config"
	"agenthooks/internal/gitx"
	"agenthooks/internal/logging"
	"agenthooks/internal/ui"
)

// HookInput is the JSON payload piped to hooks via stdin.
type HookInput struct {
	ToolName      string          `json:"tool_name"`
	ToolInput     json.RawMessage `json:"tool_input"`
	HookEventName string          `json:"hook_event_name"`
	SessionID     string          `json:"session_id"`
	Cwd           string          `json:"cwd"`
	RawPrompt     json.RawMessage `json:"prompt"`
}

func (h *HookInput) params() map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if len(h.ToolInput) == 0 {
		return nil
	}
	if err := json.Unmarshal(h.ToolInput, &m); err != nil {
		return nil
	}
	return m
}

func (h *HookInput) stringParam(name string) string {
	raw, ok := h.params()[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Command extracts the "command" field from tool_input (Bash tool).
func (h *HookInput) Command() string {
	return h.stringParam("command")
}

// FilePath extracts the "file_path" field from tool_input (Read/Edit/Write).
func (h *HookInput) FilePath() string {
	return h.stringParam("file_path")
}

// HasParam reports whether tool_input carries name with a non-null value.
func (h *HookInput) HasParam(name string) bool {
	raw, ok := h.params()[name]
	if !ok {
		return false
	}
	return !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Prompt returns the submitted prompt. A missing prompt is "", a null or
// other non-string value is an error.
func (h *HookInput) Prompt() (string, error) {
	raw := bytes.TrimSpace(h.RawPrompt)
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if bytes.Equal(raw, []byte("null")) || json.Unmarshal(raw, &s) != nil {
		return "", fmt.Errorf("prompt must be a string, got %s", raw)
	}
	return s, nil
}

// ReadInput reads and parses HookInput from the given reader.
func ReadInput(r io.Reader) (HookInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return HookInput{}, fmt.Errorf("reading stdin: %w", err)
	}
	var input HookInput
	if err := json.Unmarshal(data, &input); err != nil {
		return HookInput{}, fmt.Errorf("invalid JSON input: %w", err)
	}
	return input, nil
}

// Decision is the outcome a hook reports to the host.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionWarn  Decision = "warn"
	DecisionBlock Decision = "block"
	DecisionError Decision = "error"
)

// HookResult is what a hook decided. Message goes to stdout (context for the
// assistant), Reason to stderr.
type HookResult struct {
	Decision Decision
	Message  string
	Reason   string
}

func Allow() HookResult {
	return HookResult{Decision: DecisionAllow}
}

func AllowMsg(msg string) HookResult {
	return HookResult{Decision: DecisionAllow, Message: msg}
}

// Warn allows the action but shows reason on stderr.
func Warn(reason string) HookResult {
	return HookResult{Decision: DecisionWarn, Reason: reason}
}

func Block(reason string) HookResult {
	return HookResult{Decision: DecisionBlock, Reason: reason}
}

// Fail reports a hard error. Only fail-closed hooks return it.
func Fail(detail string) HookResult {
	return HookResult{Decision: DecisionError, Reason: detail}
}

// Code maps the decision to the process exit status.
func (r HookResult) Code() int {
	switch r.Decision {
	case DecisionBlock:
		return 2
	case DecisionError:
		return 1
	}
	return 0
}

// Env carries every ambient input a hook may consult. Stderr receives
// non-fatal warnings.
type Env struct {
	ProjectDir string
	WorkDir    string
	HomeDir    string
	Getenv     func(string) string
	Now        func() time.Time
	Git        gitx.Client
	Log        zerolog.Logger
	Palette    *ui.Palette
	Disabled   config.DisabledHooks
	Stderr     io.Writer
}

// NewEnv builds an Env from the process environment. The returned func
// closes the log file.
func NewEnv(name string) (*Env, func()) {
	wd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	project := os.Getenv("CLAUDE_PROJECT_DIR")

	gitDir := project
	if gitDir == "" {
		gitDir = wd
	}
	logger, closeLog := logging.New(name, home, os.Getenv)

	return &Env{
		ProjectDir: project,
		WorkDir:    wd,
		HomeDir:    home,
		Getenv:     os.Getenv,
		Now:        time.Now,
		Git:        gitx.New(gitDir, os.Getenv("HOOK_GIT_BACKEND")),
		Log:        logger,
		Palette:    ui.NewPalette(os.Getenv("NO_COLOR") != ""),
		Disabled:   config.LoadDisabledHooks(project, os.Getenv("HOOK_DISABLED")),
		Stderr:     os.Stderr,
	}, closeLog
}

// Var reads a variable, tolerating a nil Getenv.
func (e *Env) Var(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

func (e *Env) warn(msg string) {
	if e.Stderr != nil {
		fmt.Fprintln(e.Stderr, msg)
	}
}

// BaseDir is the project dir when known, otherwise the working dir.
func (e *Env) BaseDir() string {
	if e.ProjectDir != "" {
		return e.ProjectDir
	}
	return e.WorkDir
}

// Bypassed reports whether flag is set to 1 in the environment or inline in
// the command text ("FLAG=1 git commit ...").
func Bypassed(env *Env, flag, command string) bool {
	if env.Var(flag) == "1" {
		return true
	}
	return command != "" && strings.Contains(command, flag+"=1")
}

// HookFunc is the body of one hook.
type HookFunc func(ctx context.Context, env *Env, input HookInput) (HookResult, error)

// Hook binds a name, which is also its disabled-hooks key, to its body.
// FailClosed turns malformed input and returned errors into exit 1 instead
// of a silent allow.
type Hook struct {
	Name       string
	Run        HookFunc
	FailClosed bool
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Execute runs h against stdin and writes its output, returning the exit
// code. A disabled hook returns 0 without output. Panics and errors allow,
// unless the hook fails closed.
func Execute(h Hook, stdin io.Reader, stdout, stderr io.Writer, env *Env) (code int) {
	if env.Disabled.Has(h.Name) {
		env.Log.Debug().Msg("disabled")
		return 0
	}

	fail := func(err error) int {
		if !h.FailClosed {
			env.Log.Warn().Err(err).Msg("failing open")
			return 0
		}
		env.Log.Error().Err(err).Msg("failing closed")
		fmt.Fprintf(stderr, "%s error: %v\n", h.Name, err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			code = fail(fmt.Errorf("panic: %v", r))
		}
	}()

	input, err := ReadInput(stdin)
	if err != nil {
		return fail(err)
	}

	ctx := context.Background()
	res, err := h.Run(ctx, env, input)
	if err != nil {
		return fail(err)
	}

	env.Log.Info().
		Str("event", input.HookEventName).
		Str("tool", input.ToolName).
		Str("decision", string(res.Decision)).
		Str("reason", ansiEscape.ReplaceAllString(firstLine(res.Reason), "")).
		Msg("decided")

	if res.Message != "" {
		fmt.Fprintln(stdout, res.Message)
	}
	if res.Reason != "" {
		fmt.Fprintln(stderr, res.Reason)
	}
	return res.Code()
}

// Run is the standard entrypoint for a hook binary.
func Run(h Hook) {
	env, closeLog := NewEnv(h.Name)
	code := Execute(h, os.Stdin, os.Stdout, os.Stderr, env)
	closeLog()
	os.Exit(code)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
