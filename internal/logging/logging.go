// Package logging sets up the file logger shared by every hook binary.
//
// Hooks talk to the host over stdout and stderr, so nothing is logged to either
// stream. Logging is off unless HOOK_DEBUG=1 or HOOK_LOG_FILE is set.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultFile is relative to the user's home directory.
const DefaultFile = ".claude/logs/hooks.log"

// New returns a logger tagged with the hook name and a func that releases the
// underlying file. getenv is usually os.Getenv.
func New(hook, home string, getenv func(string) string) (zerolog.Logger, func()) {
	path := getenv("HOOK_LOG_FILE")
	if path == "" && getenv("HOOK_DEBUG") == "1" && home != "" {
		path = filepath.Join(home, DefaultFile)
	}
	if path == "" {
		return zerolog.Nop(), func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), func() {}
	}

	level := zerolog.DebugLevel
	if v := strings.TrimSpace(getenv("HOOK_LOG_LEVEL")); v != "" {
		if l, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = l
		}
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Str("hook", hook).
		Int("pid", os.Getpid()).
		Logger()
	return logger, func() { _ = f.Close() }
}
