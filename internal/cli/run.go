package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agenthooks/internal/hooks"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <hook>",
		Short: "Run one hook against the JSON payload on stdin",
		Long: `Run a hook in-process, exactly as its standalone binary would: the hook
reads its payload from stdin and the command exits with the hook's status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, _ := cmd.Flags().GetInt("threshold")
			h, ok := hooks.Registry(threshold)[args[0]]
			if !ok {
				return fmt.Errorf("unknown hook %q (see `hooks list`)", args[0])
			}
			if dir, _ := cmd.Flags().GetString("project"); dir != "" {
				if err := os.Setenv("CLAUDE_PROJECT_DIR", dir); err != nil {
					return err
				}
			}
			env, closeLog := hooks.NewEnv(h.Name)
			defer closeLog()
			code := hooks.Execute(h, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), env)
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
	cmd.Flags().Int("threshold", 0, "line threshold override for the large-file hooks")
	return cmd
}
