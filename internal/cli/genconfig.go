package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"agenthooks/internal/config"
	"agenthooks/internal/hooks"
)

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: "Write the hook registry into .claude/settings.json",
		Long: `Render .claude/hooks.yaml (or the built-in registry when the project has
none) into the "hooks" section of .claude/settings.json. Other settings keys
are preserved and registry env entries are merged into "env".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(cmd)
			if err != nil {
				return err
			}
			binDir, _ := cmd.Flags().GetString("bin-dir")
			skip, _ := cmd.Flags().GetBool("skip-validate")
			return genConfig(cmd.OutOrStdout(), dir, binDir, skip)
		},
	}
	cmd.Flags().String("bin-dir", "", "directory holding the hook binaries (default: registry binDir)")
	cmd.Flags().Bool("skip-validate", false, "skip the hook binary existence check (e.g. before binaries are installed)")
	return cmd
}

func genConfig(out io.Writer, dir, binDir string, skipValidate bool) error {
	cfg, src, err := config.LoadOrDefault(dir)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	if src == "" {
		src = "built-in registry"
	}
	if binDir == "" {
		binDir = cfg.BinDir
	}
	if err := validateHooks(cfg, binDir, skipValidate); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	path := filepath.Join(dir, config.SettingsFile)
	if err := config.WriteSettings(path, cfg.ClaudeHooks(binDir), cfg.Env); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	fmt.Fprintln(out, "wrote", path)
	return nil
}

// validateHooks rejects unknown hook names and, unless skipBinaries is set,
// included hooks whose binary is missing from binDir.
func validateHooks(cfg *config.Config, binDir string, skipBinaries bool) error {
	known := hooks.Registry(0)
	for _, name := range cfg.HookNames() {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("hook %q: not a known hook", name)
		}
	}
	if skipBinaries || binDir == "" {
		return nil
	}
	dir := config.ExpandHome(binDir)
	seen := map[string]bool{}
	for _, ev := range cfg.Events() {
		for _, e := range *ev.Entries {
			if !e.Included() || seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			path := filepath.Join(dir, e.Name)
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("hook %q: binary not found at %s (run: make install)", e.Name, path)
			}
			if info.IsDir() {
				return fmt.Errorf("hook %q: %s is a directory, expected binary", e.Name, path)
			}
		}
	}
	return nil
}
