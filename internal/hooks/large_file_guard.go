package hooks

import (
	"context"
	"fmt"
	"strings"

	"agenthooks/internal/largefile"
	"agenthooks/internal/ui"
)

// AllowLargeReadFlag bypasses the large-file guard.
const AllowLargeReadFlag = "ALLOW_LARGE_READ"

// TokenizerEnv selects an exact tokenizer (e.g. cl100k_base) for estimates.
const TokenizerEnv = "LARGE_FILE_TOKENIZER"

// LargeFileGuard is a preToolUse hook that blocks whole-file reads of files
// over the line threshold. override > 0 takes precedence over every other
// threshold source.
func LargeFileGuard(override int) Hook {
	return Hook{
		Name: "large-file-guard",
		Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
			return largeFileGuard(env, input, override)
		},
	}
}

func largeFileGuard(env *Env, input HookInput, override int) (HookResult, error) {
	if input.ToolName != "Read" {
		return Allow(), nil
	}
	path := input.FilePath()
	if path == "" {
		return Allow(), nil
	}

	gate := largefile.Gate{
		Threshold: largefile.ResolveThreshold(largefile.ThresholdSources{
			Override:    override,
			Getenv:      env.Getenv,
			HomeDir:     env.HomeDir,
			GuardConfig: true,
		}),
		Bypass:    env.Var(AllowLargeReadFlag) == "1",
		Estimator: estimator(env),
	}
	v := gate.Check(largefile.ReadRequest{
		Path:      path,
		HasOffset: input.HasParam("offset"),
		HasLimit:  input.HasParam("limit"),
	})
	if v.Skipped != "" {
		env.Log.Debug().Str("path", path).Str("skip", v.Skipped).Msg("read admitted")
	}
	if !v.Block {
		return Allow(), nil
	}
	return Block(largeFileMessage(env, path, v)), nil
}

func estimator(env *Env) largefile.Estimator {
	est, err := largefile.NewEstimator(env.Var(TokenizerEnv))
	if err != nil {
		env.Log.Warn().Err(err).Msg("tokenizer unavailable, using ratio estimate")
		return largefile.RatioEstimator{}
	}
	return est
}

func largeFileMessage(env *Env, path string, v largefile.Verdict) string {
	p := env.Palette
	var alternatives []string
	if v.Category == largefile.Code {
		alternatives = append(alternatives, "Serena find_symbol")
	}
	alternatives = append(alternatives, "Grep patterns", "Read offset/limit")

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s lines, ~%s tokens est.)\n\n",
		p.Red("❌ Large file:"), path, ui.Count(v.Lines), ui.Count(v.Tokens))
	fmt.Fprintf(&b, "%s %s\n\n", p.Yellow("📝 Alternatives:"), strings.Join(alternatives, " • "))
	fmt.Fprintf(&b, "%s %s=1", p.Blue("💡 Bypass:"), AllowLargeReadFlag)
	return b.String()
}
