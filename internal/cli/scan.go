package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"agenthooks/internal/gitx"
	"agenthooks/internal/hooks"
	"agenthooks/internal/largefile"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Report files over the large-file threshold",
		Long: `Run the large-file-awareness scan over dir (default: the project
directory) and print the report a session would start with.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			} else {
				var err error
				if dir, err = projectDir(cmd); err != nil {
					return err
				}
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			override, _ := cmd.Flags().GetInt("threshold")
			home, _ := os.UserHomeDir()
			threshold := largefile.ResolveThreshold(largefile.ThresholdSources{
				Override: override,
				Getenv:   os.Getenv,
				HomeDir:  home,
			})
			est, err := largefile.NewEstimator(os.Getenv(hooks.TokenizerEnv))
			if err != nil {
				return err
			}

			s := &largefile.Scanner{
				Root:      abs,
				Threshold: threshold,
				Git:       gitx.New(abs, os.Getenv("HOOK_GIT_BACKEND")),
				Estimator: est,
			}
			report := largefile.FormatReport(s.Scan(cmd.Context()), threshold)
			if report == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "no files over %d lines\n", threshold)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().Int("threshold", 0, "line threshold (default: resolved from env and settings)")
	return cmd
}
