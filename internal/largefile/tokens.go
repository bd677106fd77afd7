package largefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"
)

// EstimateTokens is floor(characters / 3.5). Invalid UTF-8 is dropped before
// counting.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(strings.ToValidUTF8(text, ""))
	return n * 2 / 7
}

// EstimateTokensFromBytes applies the same ratio to a byte size without
// reading the file.
func EstimateTokensFromBytes(size int64) int {
	return int(size * 2 / 7)
}

// Estimator turns file content into a token count.
type Estimator interface {
	Estimate(text string) int
}

// RatioEstimator is the fixed-ratio estimate.
type RatioEstimator struct{}

func (RatioEstimator) Estimate(text string) int { return EstimateTokens(text) }

// TiktokenEstimator counts tokens with a BPE codec. Encoding failures fall
// back to the ratio.
type TiktokenEstimator struct {
	codec tokenizer.Codec
}

func (e *TiktokenEstimator) Estimate(text string) int {
	ids, _, err := e.codec.Encode(strings.ToValidUTF8(text, ""))
	if err != nil {
		return EstimateTokens(text)
	}
	return len(ids)
}

// NewEstimator returns the estimator named by LARGE_FILE_TOKENIZER: "" or
// "ratio" for the fixed ratio, otherwise a tiktoken encoding such as
// "cl100k_base" or "o200k_base".
func NewEstimator(name string) (Estimator, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "ratio" {
		return RatioEstimator{}, nil
	}
	codec, err := tokenizer.Get(tokenizer.Encoding(name))
	if err != nil {
		return nil, fmt.Errorf("tokenizer %q: %w", name, err)
	}
	return &TiktokenEstimator{codec: codec}, nil
}

// CountLines streams path and counts lines. A final line without a trailing
// newline still counts. Errors, including a missing file, count as 0.
func CountLines(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	buf := make([]byte, 32*1024)
	lines := 0
	var last byte
	read := false
	for {
		n, err := r.Read(buf)
		if n > 0 {
			read = true
			lines += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0
		}
	}
	if read && last != '\n' {
		lines++
	}
	return lines
}
