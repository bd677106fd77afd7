package main

import (
	"flag"

	"agenthooks/internal/hooks"
)

func main() {
	threshold := flag.Int("threshold", 0, "line threshold for reported files")
	flag.Parse()
	hooks.Run(hooks.LargeFileAwareness(*threshold))
}
