package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"agenthooks/internal/config"
	"agenthooks/internal/triggers"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Set up hooks for a project",
		Long: `Write .claude/hooks.yaml from the built-in registry, install the default
prompt triggers under ~/.claude if none exist, then run gen-config.
Path defaults to the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			force, _ := cmd.Flags().GetBool("force")
			binDir, _ := cmd.Flags().GetString("bin-dir")
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			return initProject(cmd.OutOrStdout(), abs, home, binDir, force)
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing .claude/hooks.yaml")
	cmd.Flags().String("bin-dir", "", "directory holding the hook binaries (default: registry binDir)")
	return cmd
}

func initProject(out io.Writer, dir, home, binDir string, force bool) error {
	registry := filepath.Join(dir, config.RegistryFile)
	wrote, err := writeIfMissing(registry, config.DefaultYAML, force)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if wrote {
		fmt.Fprintln(out, "wrote", registry)
	} else {
		fmt.Fprintln(out, "kept", registry)
	}

	claudeHome := filepath.Join(home, ".claude")
	if triggers.FindFile(claudeHome) == "" {
		path := filepath.Join(claudeHome, triggers.FileStem+".toml")
		if _, err := writeIfMissing(path, triggers.DefaultTOML, false); err != nil {
			return fmt.Errorf("init: %w", err)
		}
		fmt.Fprintln(out, "wrote", path)
	}

	// Binaries may not be installed yet.
	return genConfig(out, dir, binDir, true)
}

func writeIfMissing(path string, data []byte, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	return true, os.WriteFile(path, data, 0644)
}
