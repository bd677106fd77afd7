package gitx

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Native answers from the repository on disk with go-git, for machines
// without a git executable. Diffs compare committed trees only.
type Native struct {
	Dir string
}

func (n *Native) open() (*git.Repository, error) {
	dir := n.Dir
	if dir == "" {
		dir = "."
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	return repo, err
}

func (n *Native) IsInsideWorkTree(ctx context.Context) bool {
	repo, err := n.open()
	if err != nil {
		return false
	}
	_, err = repo.Worktree()
	return err == nil
}

func (n *Native) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := n.open()
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: HEAD is symbolic but has no commit yet.
		sym, serr := repo.Storer.Reference(plumbing.HEAD)
		if serr != nil {
			return "", serr
		}
		return sym.Target().Short(), nil
	}
	if err != nil {
		return "", err
	}
	if !ref.Name().IsBranch() {
		// Detached HEAD, same as `git branch --show-current`.
		return "", nil
	}
	return ref.Name().Short(), nil
}

func (n *Native) TrackedFiles(ctx context.Context) ([]string, error) {
	repo, err := n.open()
	if err != nil {
		return nil, err
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	files := make([]string, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		files = append(files, e.Name)
	}
	return files, nil
}

func (n *Native) StagedFiles(ctx context.Context) ([]string, error) {
	repo, err := n.open()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}
	var files []string
	for path, st := range status {
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (n *Native) DiffNames(ctx context.Context, rev string) ([]string, error) {
	repo, err := n.open()
	if err != nil {
		return nil, err
	}
	from, to := rev, "HEAD"
	threeDot := false
	if a, b, ok := strings.Cut(rev, "..."); ok {
		from, to, threeDot = a, b, true
		if to == "" {
			to = "HEAD"
		}
	}

	toCommit, err := resolveCommit(repo, to)
	if err != nil {
		return nil, err
	}
	fromCommit, err := resolveCommit(repo, from)
	if err != nil {
		return nil, err
	}
	if threeDot {
		bases, err := fromCommit.MergeBase(toCommit)
		if err != nil {
			return nil, fmt.Errorf("merge base of %s: %w", rev, err)
		}
		if len(bases) == 0 {
			return nil, fmt.Errorf("no merge base for %s", rev)
		}
		fromCommit = bases[0]
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, err
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", rev, err)
	}

	seen := map[string]bool{}
	var files []string
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	h, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", rev, err)
	}
	return repo.CommitObject(*h)
}
