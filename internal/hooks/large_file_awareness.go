package hooks

import (
	"context"

	"agenthooks/internal/largefile"
)

// LargeFileAwareness is a sessionStart hook that lists the project's large
// files so navigation starts symbol-first. It never blocks.
func LargeFileAwareness(override int) Hook {
	return Hook{
		Name: "large-file-awareness",
		Run: func(ctx context.Context, env *Env, input HookInput) (HookResult, error) {
			return largeFileAwareness(ctx, env, input, override)
		},
	}
}

func largeFileAwareness(ctx context.Context, env *Env, input HookInput, override int) (HookResult, error) {
	if input.HookEventName != "SessionStart" {
		return Allow(), nil
	}
	threshold := largefile.ResolveThreshold(largefile.ThresholdSources{
		Override: override,
		Getenv:   env.Getenv,
		HomeDir:  env.HomeDir,
	})
	scanner := &largefile.Scanner{
		Root:      env.BaseDir(),
		Threshold: threshold,
		Git:       env.Git,
		Estimator: estimator(env),
	}
	reports := scanner.Scan(ctx)
	env.Log.Debug().Int("threshold", threshold).Int("found", len(reports)).Msg("scanned")

	report := largefile.FormatReport(reports, threshold)
	if report == "" {
		return Allow(), nil
	}
	return AllowMsg(report), nil
}
