package main

import "agenthooks/internal/hooks"

func main() {
	hooks.Run(hooks.EnvironmentAwareness)
}
