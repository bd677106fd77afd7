package largefile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultThreshold = 500

	ThresholdEnv = "LARGE_FILE_THRESHOLD"
	// SettingsKey is read from ~/.claude/settings.json.
	SettingsKey = "largeFileThreshold"
	// GuardConfigFile holds a bare integer, consulted only by the read guard.
	GuardConfigFile = ".claude/hook-large-file-guard-config"
	settingsFile    = ".claude/settings.json"
)

// ThresholdSources are the inputs to ResolveThreshold. Zero values mean
// "not provided".
type ThresholdSources struct {
	Override int
	Getenv   func(string) string
	HomeDir  string
	// GuardConfig enables the plain-text per-user file.
	GuardConfig bool
}

// ResolveThreshold returns the first valid positive value from: the inline
// override, LARGE_FILE_THRESHOLD, the settings.json key, the guard config file
// (if enabled), then DefaultThreshold. Malformed sources are skipped.
func ResolveThreshold(src ThresholdSources) int {
	if src.Override > 0 {
		return src.Override
	}
	if src.Getenv != nil {
		if n, ok := parsePositive(src.Getenv(ThresholdEnv)); ok {
			return n
		}
	}
	if src.HomeDir != "" {
		if n, ok := settingsThreshold(filepath.Join(src.HomeDir, settingsFile)); ok {
			return n
		}
		if src.GuardConfig {
			if data, err := os.ReadFile(filepath.Join(src.HomeDir, GuardConfigFile)); err == nil {
				if n, ok := parsePositive(string(data)); ok {
					return n
				}
			}
		}
	}
	return DefaultThreshold
}

func parsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func settingsThreshold(path string) (int, bool) {
	if _, err := os.Stat(path); err != nil {
		return 0, false
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return 0, false
	}
	if !v.IsSet(SettingsKey) {
		return 0, false
	}
	switch raw := v.Get(SettingsKey).(type) {
	case string:
		return parsePositive(raw)
	case float64:
		if raw != float64(int(raw)) {
			return 0, false
		}
		return parsePositive(strconv.Itoa(int(raw)))
	case int, int64:
		return parsePositive(strconv.Itoa(v.GetInt(SettingsKey)))
	}
	return 0, false
}
