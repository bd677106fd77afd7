// Package cli implements the hooks management command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agenthooks/internal/config"
)

var (
	appVersion = "dev"
	appCommit  = "none"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit string) {
	appVersion = version
	appCommit = commit
}

// ExitError carries a hook's exit status out of `hooks run`.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hooks",
		Short: "Manage the agent guard hooks",
		Long: `hooks manages the guard hooks installed for Claude Code: which hooks a
project runs, how they are registered in .claude/settings.json and which are
disabled locally. It can also run any hook in-process.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("project", "", "project directory (default: $CLAUDE_PROJECT_DIR or the nearest dir with .claude/ or .git/)")

	root.AddCommand(
		newVersionCmd(),
		newListCmd(),
		newDisableCmd(),
		newEnableCmd(),
		newInitCmd(),
		newGenConfigCmd(),
		newScanCmd(),
		newInteractiveCmd(),
		newRunCmd(),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hooks %s\ncommit: %s\n", appVersion, appCommit)
		},
	}
}

// projectDir resolves --project, then CLAUDE_PROJECT_DIR, then the nearest
// project root above the working directory.
func projectDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("project"); dir != "" {
		return dir, nil
	}
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindProjectDir(wd), nil
}
