package largefile

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agenthooks/internal/gitx"
)

// MaxShown caps the files listed in the awareness report.
const MaxShown = 10

// tokensPerLine is the fallback when a file cannot be read for estimation.
const tokensPerLine = 8

var excludedDirs = map[string]bool{
	".git": true, "node_modules": true, "__pycache__": true, ".venv": true,
	"venv": true, "vendor": true, "dist": true, "build": true, ".next": true,
	"target": true, ".tox": true, "htmlcov": true, "coverage": true,
	".pytest_cache": true, ".mypy_cache": true,
}

// FileReport describes one file at or above the threshold.
type FileReport struct {
	Path   string
	Lines  int
	Tokens int
	Type   Category
	Tool   string
}

// Scanner finds large files under Root.
type Scanner struct {
	Root      string
	Threshold int
	// Git lists tracked files when Root is inside a work tree. Nil forces a
	// directory walk.
	Git       gitx.Client
	Estimator Estimator
}

// Scan returns every qualifying file, largest first. Files that fail to
// process are skipped.
func (s *Scanner) Scan(ctx context.Context) []FileReport {
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	est := s.Estimator
	if est == nil {
		est = RatioEstimator{}
	}

	var reports []FileReport
	for _, rel := range s.files(ctx) {
		if r, ok := s.analyze(rel, threshold, est); ok {
			reports = append(reports, r)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Lines > reports[j].Lines
	})
	return reports
}

func (s *Scanner) analyze(rel string, threshold int, est Estimator) (FileReport, bool) {
	full := filepath.Join(s.Root, rel)
	info, err := os.Lstat(full)
	if err != nil || !info.Mode().IsRegular() {
		return FileReport{}, false
	}
	cat := Classify(rel)
	if cat == Binary {
		return FileReport{}, false
	}
	lines := CountLines(full)
	if lines < threshold {
		return FileReport{}, false
	}
	tokens := lines * tokensPerLine
	if data, err := os.ReadFile(full); err == nil {
		tokens = est.Estimate(string(data))
	}
	return FileReport{Path: rel, Lines: lines, Tokens: tokens, Type: cat, Tool: RecommendTool(cat)}, true
}

func (s *Scanner) files(ctx context.Context) []string {
	if s.Git != nil && s.Git.IsInsideWorkTree(ctx) {
		if files, err := s.Git.TrackedFiles(ctx); err == nil {
			return files
		}
	}
	return WalkFiles(s.Root, 0)
}

// WalkFiles lists regular files under root relative to it, pruning
// conventional dependency and build directories and skipping symlinks. A
// positive limit stops the walk after that many files.
func WalkFiles(root string, limit int) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		if limit > 0 && len(files) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	return files
}

// FormatReport renders the session-start awareness block. It returns "" when
// there is nothing to report.
func FormatReport(reports []FileReport, threshold int) string {
	if len(reports) == 0 {
		return ""
	}
	shown := reports
	if len(shown) > MaxShown {
		shown = shown[:MaxShown]
	}

	var sb strings.Builder
	sb.WriteString("\n## Large Files (symbolic navigation required)\n")
	for _, r := range shown {
		fmt.Fprintf(&sb, "%s (%d lines, ~%d tokens) → %s\n", r.Path, r.Lines, r.Tokens, r.Tool)
	}
	if extra := len(reports) - len(shown); extra > 0 {
		fmt.Fprintf(&sb, "(+%d more files over %d lines)\n", extra, threshold)
	}

	tools := map[string]bool{}
	for _, r := range shown {
		tools[r.Tool] = true
	}
	var guidance []string
	if tools["Serena"] {
		guidance = append(guidance, "find_symbol for code")
	}
	if tools["Grep"] {
		guidance = append(guidance, "Grep for patterns")
	}
	if tools["Read offset/limit"] {
		guidance = append(guidance, "Read offset/limit for sections")
	}
	if len(guidance) > 0 {
		fmt.Fprintf(&sb, "\nAction: %s.\n", strings.Join(guidance, ", "))
	}
	return sb.String()
}
