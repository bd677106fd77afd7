// Package gitx answers the handful of repository questions the hooks ask.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

var ErrNotRepository = errors.New("not a git repository")

// Client is implemented by the git CLI backend and the go-git backend.
type Client interface {
	IsInsideWorkTree(ctx context.Context) bool
	CurrentBranch(ctx context.Context) (string, error)
	TrackedFiles(ctx context.Context) ([]string, error)
	StagedFiles(ctx context.Context) ([]string, error)
	// DiffNames lists paths changed by rev, which is either a single ref
	// (compared against the working tree) or an "a...b" range.
	DiffNames(ctx context.Context, rev string) ([]string, error)
}

// Per-call timeouts.
const (
	RevParseTimeout = 2 * time.Second
	ListTimeout     = 5 * time.Second
	BranchTimeout   = 5 * time.Second
	StagedTimeout   = 5 * time.Second
	DiffTimeout     = 10 * time.Second
)

// New returns the backend named by backend ("native" for go-git, anything
// else for the git CLI) rooted at dir.
func New(dir, backend string) Client {
	if strings.EqualFold(strings.TrimSpace(backend), "native") {
		return &Native{Dir: dir}
	}
	return &CLI{Dir: dir}
}

// CLI shells out to the git executable.
type CLI struct {
	Dir string
	// Bin overrides the executable, mostly for tests.
	Bin string
}

func (c *CLI) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin := c.Bin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if ctx.Err() != nil {
		return "", fmt.Errorf("git %s: %w", args[0], ctx.Err())
	}
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

func (c *CLI) IsInsideWorkTree(ctx context.Context) bool {
	out, err := c.run(ctx, RevParseTimeout, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

func (c *CLI) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, BranchTimeout, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *CLI) TrackedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, ListTimeout, "ls-files")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *CLI) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, StagedTimeout, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *CLI) DiffNames(ctx context.Context, rev string) ([]string, error) {
	out, err := c.run(ctx, DiffTimeout, "diff", rev, "--name-only")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
