package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"agenthooks/internal/config"
	"agenthooks/internal/hooks"
)

func newDisableCmd() *cobra.Command {
	return newToggleCmd("disable", "Disable hooks for this project", true)
}

func newEnableCmd() *cobra.Command {
	return newToggleCmd("enable", "Re-enable hooks disabled for this project", false)
}

func newToggleCmd(use, short string, disable bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <hook>...",
		Short: short,
		Long: short + `.

Edits .claude/disabled-hooks. Disabled hooks exit 0 without output. Names
are checked against the known hooks unless --force is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			known := hooks.Registry(0)
			for _, name := range args {
				if _, ok := known[name]; !ok && !force {
					return fmt.Errorf("unknown hook %q (see `hooks list`)", name)
				}
			}
			for _, name := range args {
				changed, err := config.SetHookDisabled(dir, name, disable)
				if err != nil {
					return err
				}
				state := "enabled"
				if disable {
					state = "disabled"
				}
				if !changed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already %s\n", name, state)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, state)
			}
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "accept hook names that are not known")
	return cmd
}
