package largefile

import (
	"os"
)

const (
	InstantAllowBytes = 5 * 1024
	InstantBlockBytes = 100 * 1024
	// bytesPerLine estimates lines for files too large to scan.
	bytesPerLine = 80
)

// ReadRequest is a Read tool call. HasOffset and HasLimit are true when the
// parameter is present and not null; an explicit 0 still counts.
type ReadRequest struct {
	Path      string
	HasOffset bool
	HasLimit  bool
}

// Skip reasons reported in Verdict.Skipped.
const (
	SkipBypass      = "bypass"
	SkipBinary      = "binary"
	SkipPartialRead = "partial-read"
	SkipMissing     = "missing"
)

// Verdict is the gate outcome. Lines and Tokens are only meaningful when
// Block is true; Lines is estimated for files above InstantBlockBytes.
type Verdict struct {
	Block     bool
	Skipped   string
	Category  Category
	Lines     int
	Tokens    int
	Estimated bool
}

// Gate admits or blocks whole-file reads.
type Gate struct {
	Threshold int
	// Bypass is the ALLOW_LARGE_READ escape hatch.
	Bypass    bool
	Estimator Estimator
}

// Check evaluates the skip conditions, then the two-stage size decision.
func (g Gate) Check(req ReadRequest) Verdict {
	cat := Classify(req.Path)
	v := Verdict{Category: cat}

	switch {
	case g.Bypass:
		v.Skipped = SkipBypass
		return v
	case cat == Binary:
		v.Skipped = SkipBinary
		return v
	case req.HasOffset || req.HasLimit:
		v.Skipped = SkipPartialRead
		return v
	}

	info, err := os.Stat(req.Path)
	if err != nil || info.IsDir() {
		v.Skipped = SkipMissing
		return v
	}
	size := info.Size()

	if size < InstantAllowBytes {
		return v
	}
	if size > InstantBlockBytes {
		v.Block = true
		v.Estimated = true
		v.Lines = int(size / bytesPerLine)
		v.Tokens = EstimateTokensFromBytes(size)
		return v
	}

	threshold := g.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	lines := CountLines(req.Path)
	if lines <= threshold {
		return v
	}

	v.Block = true
	v.Lines = lines
	if data, err := os.ReadFile(req.Path); err == nil {
		v.Tokens = g.estimator().Estimate(string(data))
	} else {
		v.Tokens = EstimateTokensFromBytes(size)
	}
	return v
}

func (g Gate) estimator() Estimator {
	if g.Estimator == nil {
		return RatioEstimator{}
	}
	return g.Estimator
}
