package main

import (
	"flag"

	"agenthooks/internal/hooks"
)

func main() {
	threshold := flag.Int("threshold", 0, "line threshold; overrides LARGE_FILE_THRESHOLD and config files")
	flag.Parse()
	hooks.Run(hooks.LargeFileGuard(*threshold))
}
