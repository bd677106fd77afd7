package hooks

import (
	"path"
	"strings"

	"agenthooks/internal/largefile"
)

// languageScanLimit caps how many files are inspected for languages.
const languageScanLimit = 5000

type language struct {
	name string
	exts []string
}

// languages is in display order.
var languages = []language{
	{"Python", []string{".py", ".pyi"}},
	{"JavaScript", []string{".js", ".jsx", ".mjs", ".cjs"}},
	{"TypeScript", []string{".ts", ".tsx"}},
	{"Go", []string{".go"}},
	{"Rust", []string{".rs"}},
	{"Java", []string{".java"}},
	{"Kotlin", []string{".kt", ".kts"}},
	{"C#", []string{".cs"}},
	{"C++", []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"}},
	{"C", []string{".c", ".h"}},
	{"Ruby", []string{".rb"}},
	{"PHP", []string{".php"}},
	{"Swift", []string{".swift"}},
	{"Elixir", []string{".ex", ".exs"}},
	{"Dart", []string{".dart"}},
	{"Bash", []string{".sh", ".bash"}},
}

var extLanguage = func() map[string]int {
	m := map[string]int{}
	for i, l := range languages {
		for _, e := range l.exts {
			m[e] = i
		}
	}
	return m
}()

// DetectLanguages names the languages whose source files appear under root.
func DetectLanguages(root string) []string {
	found := make([]bool, len(languages))
	for _, f := range largefile.WalkFiles(root, languageScanLimit) {
		if i, ok := extLanguage[strings.ToLower(path.Ext(f))]; ok {
			found[i] = true
		}
	}
	var out []string
	for i, ok := range found {
		if ok {
			out = append(out, languages[i].name)
		}
	}
	return out
}
